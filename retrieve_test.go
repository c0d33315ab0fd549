package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medfaq/assistant/docstore"
)

func TestFuseNormalizesAndCombines(t *testing.T) {
	lexical := []docstore.Hit{
		{ID: "a", Score: 10},
		{ID: "b", Score: 5},
	}
	vector := []docstore.Hit{
		{ID: "a", Score: 0.9},
		{ID: "b", Score: 0.8},
		{ID: "c", Score: 0.7},
	}

	passages := fuse(lexical, vector, 0.5, 0, 5)

	// Lexical normalizes to a=1, b=0. Vector normalizes to a=1, b=0.5,
	// c=0. With equal weights: a=1.0, b=0.25, c=0. All three stay ranked;
	// without a configured threshold nothing is dropped.
	require.Len(t, passages, 3)

	assert.Equal(t, "a", passages[0].DocumentID)
	assert.InDelta(t, 1.0, passages[0].Score, 1e-9)
	assert.Equal(t, 1, passages[0].Rank)

	assert.Equal(t, "b", passages[1].DocumentID)
	assert.InDelta(t, 0.25, passages[1].Score, 1e-9)
	assert.Equal(t, 2, passages[1].Rank)

	assert.Equal(t, "c", passages[2].DocumentID)
	assert.InDelta(t, 0.0, passages[2].Score, 1e-9)
	assert.Equal(t, 3, passages[2].Rank)
}

func TestFuseKeepsNormalizationFloorByDefault(t *testing.T) {
	// Two real lexical matches and no vector arm: the weaker hit
	// normalizes to zero but was still returned by the store, so it
	// survives fusion.
	lexical := []docstore.Hit{
		{ID: "a", Score: 10},
		{ID: "b", Score: 5},
	}

	passages := fuse(lexical, nil, 0.5, 0, 5)

	require.Len(t, passages, 2)
	assert.Equal(t, "a", passages[0].DocumentID)
	assert.InDelta(t, 0.5, passages[0].Score, 1e-9)
	assert.Equal(t, "b", passages[1].DocumentID)
	assert.InDelta(t, 0.0, passages[1].Score, 1e-9)
	assert.Equal(t, 2, passages[1].Rank)
}

func TestFuseMissingListContributesZero(t *testing.T) {
	lexical := []docstore.Hit{
		{ID: "a", Score: 4},
		{ID: "b", Score: 2},
		{ID: "c", Score: 1},
	}

	passages := fuse(lexical, nil, 0.5, 0, 5)

	require.Len(t, passages, 3)
	assert.Equal(t, "a", passages[0].DocumentID)
	assert.InDelta(t, 0.5, passages[0].Score, 1e-9)
	assert.Equal(t, "b", passages[1].DocumentID)
	assert.InDelta(t, 0.5/3, passages[1].Score, 1e-9)
	assert.Equal(t, "c", passages[2].DocumentID)
	assert.InDelta(t, 0.0, passages[2].Score, 1e-9)
}

func TestFuseUniformScoresCountAsFullHits(t *testing.T) {
	lexical := []docstore.Hit{
		{ID: "a", Score: 7},
		{ID: "b", Score: 7},
	}

	passages := fuse(lexical, nil, 1.0, 0, 5)

	require.Len(t, passages, 2)
	for _, p := range passages {
		assert.InDelta(t, 1.0, p.Score, 1e-9)
	}
}

func TestFuseBreaksTiesByDocumentID(t *testing.T) {
	lexical := []docstore.Hit{
		{ID: "zeta", Score: 3},
		{ID: "alpha", Score: 3},
		{ID: "mid", Score: 3},
	}

	passages := fuse(lexical, nil, 1.0, 0, 5)

	require.Len(t, passages, 3)
	assert.Equal(t, "alpha", passages[0].DocumentID)
	assert.Equal(t, "mid", passages[1].DocumentID)
	assert.Equal(t, "zeta", passages[2].DocumentID)
	assert.Equal(t, []int{1, 2, 3}, []int{passages[0].Rank, passages[1].Rank, passages[2].Rank})
}

func TestFuseTruncatesToTopK(t *testing.T) {
	lexical := []docstore.Hit{
		{ID: "a", Score: 5},
		{ID: "b", Score: 4},
		{ID: "c", Score: 3},
		{ID: "d", Score: 2},
	}

	passages := fuse(lexical, nil, 1.0, 0, 2)

	require.Len(t, passages, 2)
	assert.Equal(t, "a", passages[0].DocumentID)
	assert.Equal(t, "b", passages[1].DocumentID)
}

func TestFuseAppliesMinScore(t *testing.T) {
	lexical := []docstore.Hit{
		{ID: "a", Score: 10},
		{ID: "b", Score: 6},
		{ID: "c", Score: 1},
	}

	passages := fuse(lexical, nil, 1.0, 0.5, 5)

	require.Len(t, passages, 2)
	assert.Equal(t, "a", passages[0].DocumentID)
	assert.Equal(t, "b", passages[1].DocumentID)
}

func TestFuseEmptyInputs(t *testing.T) {
	assert.Empty(t, fuse(nil, nil, 0.5, 0, 5))
}

func TestFuseIsDeterministic(t *testing.T) {
	lexical := []docstore.Hit{
		{ID: "a", Score: 3},
		{ID: "b", Score: 2},
		{ID: "c", Score: 2},
	}
	vector := []docstore.Hit{
		{ID: "b", Score: 0.9},
		{ID: "c", Score: 0.9},
		{ID: "d", Score: 0.1},
	}

	first := fuse(lexical, vector, 0.5, 0, 5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, fuse(lexical, vector, 0.5, 0, 5))
	}
}
