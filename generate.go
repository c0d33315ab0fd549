package assistant

import (
	"context"
	"fmt"
	"time"
)

// generate invokes the completion backend with wall-clock timing around
// the call. One retry covers transient backend failures; a second failure
// is hard.
func (a *Assistant) generate(ctx context.Context, prompt string) (*Answer, error) {
	ctx, cancel := context.WithTimeout(ctx, a.options.GenerationTimeout)
	defer cancel()

	start := time.Now()

	res, err := a.generator.Generate(ctx, prompt)
	if err != nil && ctx.Err() == nil {
		res, err = a.generator.Generate(ctx, prompt)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return &Answer{
		Text:             res.Text,
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
		ResponseTime:     time.Since(start),
		Model:            a.generator.Model(),
	}, nil
}
