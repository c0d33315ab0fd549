package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const rewritePrompt = `The following is a user's medical question: "%s"

Rewrite the question to fix spelling, grammar, and clarity. Do not change its medical meaning, do not add symptoms or details that are not in the original, and do not answer the question. Keep the rewritten question about the same length as the original.

Rewritten question:`

// rewriteQuery normalizes the raw question before retrieval. It fails
// soft: any error or empty output falls back to the original question and
// flags the turn, and the pipeline proceeds.
func (a *Assistant) rewriteQuery(ctx context.Context, question string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, a.options.RewriteTimeout)
	defer cancel()

	res, err := a.rewriter.Generate(ctx, fmt.Sprintf(rewritePrompt, question))
	if err != nil {
		slog.WarnContext(ctx, "query rewrite failed, using original question", "error", err)
		return question, true
	}

	rewritten := strings.TrimSpace(res.Text)
	rewritten = strings.TrimSpace(strings.Trim(rewritten, `"`))
	if len(rewritten) == 0 {
		slog.WarnContext(ctx, "query rewrite returned empty output, using original question")
		return question, true
	}

	return rewritten, false
}
