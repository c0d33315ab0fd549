package ollama

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"

	"github.com/medfaq/assistant/generator"
)

const defaultBaseURL = "http://localhost:11434/v1"

// ollamaGenerator talks to a locally hosted Ollama server through its
// OpenAI-compatible chat endpoint, so the hosted and local backends share
// one wire format.
type ollamaGenerator struct {
	options generator.Options
	client  *openai.Client
}

func (g *ollamaGenerator) Generate(ctx context.Context, prompt string) (*generator.Result, error) {
	req := openai.ChatCompletionRequest{
		Model: g.options.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	rsp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(rsp.Choices) == 0 || len(rsp.Choices[0].Message.Content) == 0 {
		return nil, errors.New("no response from Ollama")
	}

	return &generator.Result{
		Text:             rsp.Choices[0].Message.Content,
		PromptTokens:     rsp.Usage.PromptTokens,
		CompletionTokens: rsp.Usage.CompletionTokens,
	}, nil
}

func (g *ollamaGenerator) Model() string {
	return g.options.Model
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	g := &ollamaGenerator{
		options: options,
	}

	baseURL := options.BaseURL
	if len(baseURL) == 0 {
		baseURL = defaultBaseURL
	}

	// Ollama ignores the key but the client requires one.
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = baseURL

	g.client = openai.NewClientWithConfig(cfg)

	return g
}
