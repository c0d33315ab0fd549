package docstore

import "context"

type Option func(*Options)

type Options struct {
	Location   string
	Table      string
	Dimensions int
	Context    context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithTable(table string) Option {
	return func(o *Options) {
		o.Table = table
	}
}

func WithDimensions(n int) Option {
	return func(o *Options) {
		o.Dimensions = n
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Table:      "documents",
		Dimensions: 384,
		Context:    context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
