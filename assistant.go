// Package assistant answers free-text medical-symptom questions from a
// fixed FAQ corpus: the raw question is rewritten for clarity, supporting
// passages are retrieved with hybrid lexical+vector search, an answer is
// generated strictly from the retrieved context, and a second model call
// judges the answer's relevance before the turn is logged.
package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medfaq/assistant/conversation"
	"github.com/medfaq/assistant/docstore"
	"github.com/medfaq/assistant/embedder"
	"github.com/medfaq/assistant/generator"
)

const failureMessage = "I'm unable to answer right now. Please try again later."

type Assistant struct {
	embedder  embedder.Embedder
	store     docstore.Store
	generator generator.Generator
	rewriter  generator.Generator
	judge     generator.Generator
	logger    conversation.Logger
	options   Options
}

func New(
	e embedder.Embedder,
	store docstore.Store,
	g generator.Generator,
	logger conversation.Logger,
	opts ...Option,
) *Assistant {
	options := NewOptions(opts...)

	a := &Assistant{
		embedder:  e,
		store:     store,
		generator: g,
		rewriter:  options.Rewriter,
		judge:     options.Judge,
		logger:    logger,
		options:   options,
	}

	if a.rewriter == nil {
		a.rewriter = g
	}
	if a.judge == nil {
		a.judge = g
	}

	return a
}

// AnswerQuestion runs one full turn. It is safe to call concurrently;
// every turn gets its own conversation id and shares no state with other
// turns. Hard pipeline failures do not return an error: the turn ends in
// the FAILED state with a user-facing message and a logged record.
func (a *Assistant) AnswerQuestion(ctx context.Context, question string) (*TurnResult, error) {
	if len(strings.TrimSpace(question)) == 0 {
		return nil, ErrEmptyQuestion
	}

	turn := &TurnResult{
		ConversationID: uuid.New().String(),
		State:          StateReceived,
		Question:       question,
		CreatedAt:      time.Now().UTC(),
	}

	query, rewriteFailed := a.rewriteQuery(ctx, question)
	turn.RewrittenQuery = query
	turn.RewriteFailed = rewriteFailed
	turn.State = StateRewritten

	passages, docs, lexicalOnly, err := a.retrieve(ctx, query)
	if err != nil {
		return a.fail(ctx, turn, err), nil
	}
	turn.Passages = passages
	turn.LexicalOnly = lexicalOnly
	turn.State = StateRetrieved

	// An empty passage list is not an error: the prompt's empty CONTEXT
	// steers the model to say it does not know.
	prompt := BuildPrompt(query, docs)
	turn.State = StatePrompted

	answer, err := a.generate(ctx, prompt.Render())
	if err != nil {
		return a.fail(ctx, turn, err), nil
	}
	turn.Answer = answer
	turn.State = StateGenerated

	turn.Evaluation = a.judgeRelevance(ctx, question, docs, answer.Text)
	turn.State = StateJudged

	a.logTurn(ctx, turn)

	return turn, nil
}

// SubmitFeedback attaches a +1/-1 rating to an already answered turn.
func (a *Assistant) SubmitFeedback(ctx context.Context, conversationID string, rating int) error {
	if rating != 1 && rating != -1 {
		return ErrInvalidRating
	}

	return a.logger.SaveFeedback(ctx, &conversation.Feedback{
		ConversationID: conversationID,
		Rating:         rating,
		CreatedAt:      time.Now().UTC(),
	})
}

func (a *Assistant) fail(ctx context.Context, turn *TurnResult, err error) *TurnResult {
	slog.ErrorContext(ctx, "turn failed", "conversation_id", turn.ConversationID, "state", turn.State, "error", err)

	turn.Failed = true
	turn.FailureReason = err.Error()
	turn.State = StateFailed
	turn.Answer = &Answer{
		Text:  failureMessage,
		Model: a.generator.Model(),
	}

	a.logTurn(ctx, turn)

	return turn
}

// logTurn writes the terminal record. The write survives a client
// disconnect: monitoring depends on failed turns being recorded too.
func (a *Assistant) logTurn(ctx context.Context, turn *TurnResult) {
	logCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	rec := &conversation.Record{
		ID:             turn.ConversationID,
		Question:       turn.Question,
		RewrittenQuery: turn.RewrittenQuery,
		RewriteFailed:  turn.RewriteFailed,
		Failed:         turn.Failed,
		FailureReason:  turn.FailureReason,
		CreatedAt:      turn.CreatedAt,
	}

	for _, p := range turn.Passages {
		rec.PassageIDs = append(rec.PassageIDs, p.DocumentID)
	}

	if turn.Answer != nil {
		rec.Answer = turn.Answer.Text
		rec.Model = turn.Answer.Model
		rec.ResponseTime = turn.Answer.ResponseTime
		rec.PromptTokens = turn.Answer.PromptTokens
		rec.CompletionTokens = turn.Answer.CompletionTokens
	}

	if turn.Evaluation != nil {
		rec.Relevance = string(turn.Evaluation.Verdict)
		rec.RelevanceExplanation = turn.Evaluation.Explanation
		if turn.Evaluation.Unparsable && len(turn.Evaluation.Raw) > 0 {
			rec.RelevanceExplanation = ErrUnparsableVerdict.Error() + ": " + turn.Evaluation.Raw
		}
		rec.EvalPromptTokens = turn.Evaluation.PromptTokens
		rec.EvalCompletionTokens = turn.Evaluation.CompletionTokens
	}

	if err := a.logger.SaveConversation(logCtx, rec); err != nil {
		slog.ErrorContext(logCtx, "failed to record conversation", "conversation_id", turn.ConversationID, "error", err)
		return
	}

	if !turn.Failed {
		turn.State = StateLogged
	}
}
