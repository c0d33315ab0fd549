package conversation

import (
	"context"
	"time"
)

// Record is one fully processed turn. It is written exactly once, when the
// turn reaches a terminal state, and never mutated afterwards.
type Record struct {
	ID                   string        `json:"id"`
	Question             string        `json:"question"`
	RewrittenQuery       string        `json:"rewritten_query"`
	Answer               string        `json:"answer"`
	PassageIDs           []string      `json:"passage_ids"`
	Relevance            string        `json:"relevance"`
	RelevanceExplanation string        `json:"relevance_explanation"`
	Model                string        `json:"model_used"`
	ResponseTime         time.Duration `json:"response_time"`
	PromptTokens         int           `json:"prompt_tokens"`
	CompletionTokens     int           `json:"completion_tokens"`
	EvalPromptTokens     int           `json:"eval_prompt_tokens"`
	EvalCompletionTokens int           `json:"eval_completion_tokens"`
	RewriteFailed        bool          `json:"rewrite_failed"`
	Failed               bool          `json:"failed"`
	FailureReason        string        `json:"failure_reason,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
}

// Feedback is a thumbs up/down (+1/-1) appended to an existing record.
type Feedback struct {
	ConversationID string    `json:"conversation_id"`
	Rating         int       `json:"rating"`
	CreatedAt      time.Time `json:"created_at"`
}

// Stats summarises accumulated feedback.
type Stats struct {
	ThumbsUp   int `json:"thumbs_up"`
	ThumbsDown int `json:"thumbs_down"`
}

// Logger persists turns and feedback. Implementations must be safe for
// concurrent use; the pipeline never coordinates writers itself.
type Logger interface {
	SaveConversation(ctx context.Context, rec *Record) error
	SaveFeedback(ctx context.Context, fb *Feedback) error
	RecentConversations(ctx context.Context, limit int, relevance string) ([]*Record, error)
	FeedbackStats(ctx context.Context) (*Stats, error)
}
