package vectorindex

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAddAndQuery(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "vectorindex_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	ctx := context.Background()
	store, err := Open(tmpDir, "tokens")
	require.NoError(t, err)
	require.NotNil(t, store)

	entries := []Entry{
		{ID: "doc:0/code:1/tag:0", Text: "apple", Metadata: map[string]string{"label": "fruit"}, Embedding: []float64{1.0, 0.0, 0.0}},
		{ID: "doc:0/code:1/tag:1", Text: "car", Metadata: map[string]string{"label": "vehicle"}, Embedding: []float64{0.0, 1.0, 0.0}},
	}
	ids, err := store.Add(ctx, entries)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	matches, err := store.Query(ctx, []float64{1.0, 0.0, 0.0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc:0/code:1/tag:0", matches[0].ID)
	assert.Equal(t, "apple", matches[0].Text)
	assert.InDelta(t, 1.0, matches[0].Score, 0.0001)
}

func TestStoreInMemory(t *testing.T) {
	ctx := context.Background()
	store, err := Open("", "tokens-mem")
	require.NoError(t, err)

	_, err = store.Add(ctx, []Entry{{ID: "a", Text: "alpha", Embedding: []float64{0.5}}})
	require.NoError(t, err)

	res, err := store.Query(ctx, []float64{0.5}, 1, nil)
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, "a", res[0].ID)
}

func TestRankByCosine(t *testing.T) {
	entries := []Entry{
		{ID: "a", Embedding: []float64{1, 0}},
		{ID: "b", Embedding: []float64{0, 1}},
		{ID: "c", Embedding: []float64{0.9, 0.1}},
	}
	matches, err := RankByCosine([]float64{1, 0}, entries, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "c", matches[1].ID)
}
