package assistant

import "time"

// State tracks a turn through the pipeline. Every turn ends in LOGGED or
// FAILED; both terminal states produce a logged record.
type State string

const (
	StateReceived  State = "RECEIVED"
	StateRewritten State = "REWRITTEN"
	StateRetrieved State = "RETRIEVED"
	StatePrompted  State = "PROMPTED"
	StateGenerated State = "GENERATED"
	StateJudged    State = "JUDGED"
	StateLogged    State = "LOGGED"
	StateFailed    State = "FAILED"
)

// Verdict is the judge's relevance classification.
type Verdict string

const (
	VerdictRelevant       Verdict = "RELEVANT"
	VerdictPartlyRelevant Verdict = "PARTIALLY_RELEVANT"
	VerdictNotRelevant    Verdict = "NOT_RELEVANT"
)

// Passage is one retrieved corpus document after fusion. Rank is 1-based
// in fused order; ties are broken by document id ascending.
type Passage struct {
	DocumentID string  `json:"document_id"`
	Score      float64 `json:"score"`
	Rank       int     `json:"rank"`
}

// Answer is the generated response plus the usage metrics measured around
// the backend call.
type Answer struct {
	Text             string        `json:"text"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	ResponseTime     time.Duration `json:"response_time"`
	Model            string        `json:"model"`
}

// Evaluation is the judge's output. When the judge's response cannot be
// mapped to a verdict, Unparsable is set, the verdict is NOT_RELEVANT, and
// Raw preserves the model output for audit.
type Evaluation struct {
	Verdict          Verdict `json:"verdict"`
	Explanation      string  `json:"explanation"`
	Raw              string  `json:"raw,omitempty"`
	Unparsable       bool    `json:"unparsable,omitempty"`
	PromptTokens     int     `json:"prompt_tokens"`
	CompletionTokens int     `json:"completion_tokens"`
}

// TurnResult is everything one call to AnswerQuestion produced. All fields
// are per-turn values; nothing is shared across turns.
type TurnResult struct {
	ConversationID string      `json:"conversation_id"`
	State          State       `json:"state"`
	Question       string      `json:"question"`
	RewrittenQuery string      `json:"rewritten_query"`
	RewriteFailed  bool        `json:"rewrite_failed"`
	LexicalOnly    bool        `json:"lexical_only"`
	Passages       []Passage   `json:"passages"`
	Answer         *Answer     `json:"answer"`
	Evaluation     *Evaluation `json:"evaluation"`
	Failed         bool        `json:"failed"`
	FailureReason  string      `json:"failure_reason,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}
