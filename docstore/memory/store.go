package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/medfaq/assistant/docstore"
)

// memoryStore is an in-process corpus store used for tests and local runs.
type memoryStore struct {
	options docstore.Options
	docs    map[string]docstore.Document
	mtx     sync.RWMutex
}

// SearchLexical scores documents by query-term overlap, weighting terms
// found in the question three times higher than terms found in the answer.
func (s *memoryStore) SearchLexical(ctx context.Context, query string, limit int) ([]docstore.Hit, error) {
	if limit < 1 {
		return nil, nil
	}

	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var hits []docstore.Hit
	for id, doc := range s.docs {
		question := tokenSet(doc.Question)
		answer := tokenSet(doc.Answer)

		var score float64
		for _, term := range terms {
			if question[term] {
				score += 3
			}
			if answer[term] {
				score += 1
			}
		}

		if score > 0 {
			hits = append(hits, docstore.Hit{ID: id, Score: score})
		}
	}

	sortHits(hits)

	if len(hits) > limit {
		hits = hits[:limit]
	}

	return hits, nil
}

func (s *memoryStore) SearchVector(ctx context.Context, embedding []float32, limit int) ([]docstore.Hit, error) {
	if limit < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	hits := make([]docstore.Hit, 0, len(s.docs))
	for id, doc := range s.docs {
		hits = append(hits, docstore.Hit{
			ID:    id,
			Score: docstore.CosineSimilarity(embedding, doc.Embedding),
		})
	}

	sortHits(hits)

	if len(hits) > limit {
		hits = hits[:limit]
	}

	return hits, nil
}

func (s *memoryStore) Fetch(ctx context.Context, ids []string) ([]docstore.Document, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	docs := make([]docstore.Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := s.docs[id]; ok {
			docs = append(docs, doc)
		}
	}

	return docs, nil
}

func (s *memoryStore) Index(ctx context.Context, docs []docstore.Document) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, doc := range docs {
		cpy := doc
		cpy.Embedding = append([]float32(nil), doc.Embedding...)
		s.docs[doc.ID] = cpy
	}

	return nil
}

func sortHits(hits []docstore.Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
}

func tokenSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, token := range tokenize(text) {
		set[token] = true
	}
	return set
}

func NewStore(opts ...docstore.Option) *memoryStore {
	options := docstore.NewOptions(opts...)

	return &memoryStore{
		options: options,
		docs:    map[string]docstore.Document{},
	}
}
