package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/medfaq/assistant/docstore"
)

// retrieve runs the hybrid search: lexical and vector candidate sets are
// fetched independently and fused into one ranking. An unreachable store
// is a hard failure; an embedding-provider failure only degrades the turn
// to lexical-only retrieval.
func (a *Assistant) retrieve(ctx context.Context, query string) ([]Passage, []docstore.Document, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, a.options.RetrievalTimeout)
	defer cancel()

	lexicalOnly := false

	embedding, err := a.embedder.Embed(ctx, query)
	if err != nil {
		slog.WarnContext(ctx, "query embedding failed, degrading to lexical-only retrieval", "error", err)
		lexicalOnly = true
	}

	lexical, err := a.store.SearchLexical(ctx, query, a.options.TopK)
	if err != nil {
		return nil, nil, false, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}

	var vector []docstore.Hit
	if !lexicalOnly {
		vector, err = a.store.SearchVector(ctx, embedding, a.options.TopK)
		if err != nil {
			return nil, nil, false, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
		}
	}

	passages := fuse(lexical, vector, a.options.FusionWeight, a.options.MinScore, a.options.TopK)
	if len(passages) == 0 {
		return nil, nil, lexicalOnly, nil
	}

	ids := make([]string, len(passages))
	for i, p := range passages {
		ids[i] = p.DocumentID
	}

	docs, err := a.store.Fetch(ctx, ids)
	if err != nil {
		return nil, nil, false, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}

	return passages, docs, lexicalOnly, nil
}

// fuse merges the two candidate lists. Each list's scores are min-max
// normalized to [0,1] independently, then combined with the lexical
// weight against the vector remainder; a document present in only one
// list contributes only that list's term. Duplicates collapse by id, the
// top k survive, and equal fused scores order by document id ascending so
// the ranking is deterministic. Normalization floors the weakest hit in
// each list to zero, so the cutoff is strict: every document a search arm
// returned stays ranked unless a threshold is configured.
func fuse(lexical, vector []docstore.Hit, lexicalWeight, minScore float64, k int) []Passage {
	combined := map[string]float64{}
	for id, score := range normalize(lexical) {
		combined[id] += lexicalWeight * score
	}
	for id, score := range normalize(vector) {
		combined[id] += (1 - lexicalWeight) * score
	}

	passages := make([]Passage, 0, len(combined))
	for id, score := range combined {
		if score < minScore {
			continue
		}
		passages = append(passages, Passage{DocumentID: id, Score: score})
	}

	sort.Slice(passages, func(i, j int) bool {
		if passages[i].Score != passages[j].Score {
			return passages[i].Score > passages[j].Score
		}
		return passages[i].DocumentID < passages[j].DocumentID
	})

	if k > 0 && len(passages) > k {
		passages = passages[:k]
	}

	for i := range passages {
		passages[i].Rank = i + 1
	}

	return passages
}

func normalize(hits []docstore.Hit) map[string]float64 {
	if len(hits) == 0 {
		return nil
	}

	min, max := hits[0].Score, hits[0].Score
	for _, h := range hits[1:] {
		if h.Score < min {
			min = h.Score
		}
		if h.Score > max {
			max = h.Score
		}
	}

	norm := make(map[string]float64, len(hits))
	for _, h := range hits {
		if max == min {
			// A list with one score level carries no ordering signal;
			// every member counts as a full hit in its own list.
			norm[h.ID] = 1.0
		} else {
			norm[h.ID] = (h.Score - min) / (max - min)
		}
	}

	return norm
}
