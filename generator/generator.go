package generator

import "context"

// Result carries the completion text along with the backend's token
// accounting for the call.
type Result struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// Generator is the completion-provider capability. Hosted and locally
// hosted backends implement the same interface and are interchangeable.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*Result, error)
	Model() string
}
