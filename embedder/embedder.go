package embedder

import "context"

// Embedder maps a text string to a fixed-length dense vector. The same
// embedder must be used for corpus ingestion and for queries so both live
// in the same vector space.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
