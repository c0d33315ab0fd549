package assistant

import (
	"time"

	"github.com/medfaq/assistant/generator"
)

type Option func(*Options)

type Options struct {
	// FusionWeight is the lexical arm's share of the fused score; the
	// vector arm gets the remainder. Not validated against ground truth,
	// so it is injected rather than hard-coded.
	FusionWeight float64

	// TopK is the number of passages kept after fusion.
	TopK int

	// MinScore drops fused candidates scoring below this value. The zero
	// default keeps every candidate, including the normalization floor.
	MinScore float64

	RetrievalTimeout  time.Duration
	RewriteTimeout    time.Duration
	GenerationTimeout time.Duration

	// Rewriter and Judge default to the answer generator when unset, so a
	// single backend can serve all three calls.
	Rewriter generator.Generator
	Judge    generator.Generator
}

func WithFusionWeight(lexical float64) Option {
	return func(o *Options) {
		o.FusionWeight = lexical
	}
}

func WithTopK(k int) Option {
	return func(o *Options) {
		o.TopK = k
	}
}

func WithMinScore(score float64) Option {
	return func(o *Options) {
		o.MinScore = score
	}
}

func WithRetrievalTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.RetrievalTimeout = d
	}
}

func WithRewriteTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.RewriteTimeout = d
	}
}

func WithGenerationTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.GenerationTimeout = d
	}
}

func WithRewriter(g generator.Generator) Option {
	return func(o *Options) {
		o.Rewriter = g
	}
}

func WithJudge(g generator.Generator) Option {
	return func(o *Options) {
		o.Judge = g
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		FusionWeight:      0.5,
		TopK:              5,
		MinScore:          0,
		RetrievalTimeout:  5 * time.Second,
		RewriteTimeout:    10 * time.Second,
		GenerationTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
