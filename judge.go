package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/medfaq/assistant/docstore"
)

const judgePrompt = `You are an expert evaluator for a Retrieval-Augmented Generation (RAG) system.
Your task is to analyze the relevance of the generated answer to the given question, taking into account the context the answer was generated from.
Based on the relevance of the generated answer, you will classify it as "NOT_RELEVANT", "PARTIALLY_RELEVANT", or "RELEVANT".

Here is the data for evaluation:

Question: %s

Context:
%s

Generated Answer: %s

Please analyze the content and context of the generated answer in relation to the question and provide your evaluation in parsable JSON without using code blocks:

{
  "Relevance": "NOT_RELEVANT" | "PARTIALLY_RELEVANT" | "RELEVANT",
  "Explanation": "[Provide a brief explanation for your evaluation]"
}`

// judgeRelevance asks an independent model call to classify the answer's
// relevance against the same context the answer was built from. It never
// fails the turn: an unreachable judge or unparsable output records
// NOT_RELEVANT. Defaulting to RELEVANT instead would silently inflate the
// quality metrics this step exists to protect.
func (a *Assistant) judgeRelevance(ctx context.Context, question string, docs []docstore.Document, answer string) *Evaluation {
	ctx, cancel := context.WithTimeout(ctx, a.options.GenerationTimeout)
	defer cancel()

	contextBlock := BuildPrompt(question, docs).Context

	res, err := a.judge.Generate(ctx, fmt.Sprintf(judgePrompt, question, contextBlock, answer))
	if err != nil {
		slog.WarnContext(ctx, "relevance evaluation failed", "error", err)
		return &Evaluation{
			Verdict:     VerdictNotRelevant,
			Explanation: "relevance evaluation failed: " + err.Error(),
			Unparsable:  true,
		}
	}

	eval := ParseVerdict(res.Text)
	eval.PromptTokens = res.PromptTokens
	eval.CompletionTokens = res.CompletionTokens

	if eval.Unparsable {
		slog.WarnContext(ctx, "unparsable relevance verdict", "raw", res.Text)
	}

	return eval
}

// ParseVerdict maps the judge's output onto exactly one of the three
// verdicts. Parsing is strict: anything that is not the expected JSON
// shape with a known label becomes NOT_RELEVANT with the raw text kept.
func ParseVerdict(raw string) *Evaluation {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var parsed struct {
		Relevance   string `json:"Relevance"`
		Explanation string `json:"Explanation"`
	}

	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return &Evaluation{Verdict: VerdictNotRelevant, Raw: raw, Unparsable: true}
	}

	switch verdict := Verdict(parsed.Relevance); verdict {
	case VerdictRelevant, VerdictPartlyRelevant, VerdictNotRelevant:
		return &Evaluation{Verdict: verdict, Explanation: parsed.Explanation}
	}

	return &Evaluation{Verdict: VerdictNotRelevant, Raw: raw, Unparsable: true}
}
