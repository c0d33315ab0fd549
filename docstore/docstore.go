package docstore

import (
	"context"
	"math"
)

// Document is one corpus entry: a question/answer pair plus the embedding
// derived from both texts. Documents are immutable after ingestion.
type Document struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// Hit is one scored candidate from a single search arm.
type Hit struct {
	ID    string
	Score float64
}

// Store holds the corpus and supports lexical match and vector-similarity
// search over the same records.
type Store interface {
	SearchLexical(ctx context.Context, query string, limit int) ([]Hit, error)
	SearchVector(ctx context.Context, embedding []float32, limit int) ([]Hit, error)
	Fetch(ctx context.Context, ids []string) ([]Document, error)
	Index(ctx context.Context, docs []Document) error
}

func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
