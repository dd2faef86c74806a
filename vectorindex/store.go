// Package vectorindex exposes the per-tag embedding vectors produced by a
// tagger as a similarity index. Entries are keyed by (document, code, tag
// index), never by label, since embeddings are a parallel column keyed by
// tag index rather than by label slot.
package vectorindex

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
)

// Entry is one tag's embedding, ready for indexing: ID identifies the
// (document, code, tag) triple it came from, Text is the span's surface
// text, and Metadata carries caller-supplied filterable fields (tagger
// name, code name, label, ...).
type Entry struct {
	ID        string
	Text      string
	Metadata  map[string]string
	Embedding []float64
}

// Match is an Entry returned from a similarity query, with its score.
type Match struct {
	Entry
	Score float64
}

// Store indexes tag embeddings for nearest-neighbor lookup, backed by
// chromem-go. A Store with no persistPath is in-memory only.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// Open creates or loads a vector index collection. If persistPath is
// empty, the store is in-memory only.
func Open(persistPath, collectionName string) (*Store, error) {
	var db *chromem.DB
	if persistPath != "" {
		var err error
		db, err = chromem.NewPersistentDB(persistPath, false)
		if err != nil {
			return nil, fmt.Errorf("creating persistent vector index: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	// Embeddings always arrive pre-computed from a tag's Vector column, so
	// no embedding function is registered here.
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("creating vector index collection: %w", err)
	}
	return &Store{db: db, collection: collection}, nil
}

// Add indexes a batch of tag embeddings.
func (s *Store) Add(ctx context.Context, entries []Entry) ([]string, error) {
	docs := make([]chromem.Document, len(entries))
	ids := make([]string, len(entries))

	for i, e := range entries {
		if len(e.Embedding) == 0 {
			return nil, fmt.Errorf("entry %s has no embedding", e.ID)
		}
		embedding32 := make([]float32, len(e.Embedding))
		for j, v := range e.Embedding {
			embedding32[j] = float32(v)
		}
		docs[i] = chromem.Document{
			ID:        e.ID,
			Content:   e.Text,
			Metadata:  e.Metadata,
			Embedding: embedding32,
		}
		ids[i] = e.ID
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("adding entries to vector index: %w", err)
	}
	return ids, nil
}

// Query finds the top-k most similar entries to embedding, optionally
// restricted to entries whose metadata matches every key/value in where.
func (s *Store) Query(ctx context.Context, embedding []float64, topK int, where map[string]string) ([]Match, error) {
	embedding32 := make([]float32, len(embedding))
	for i, v := range embedding {
		embedding32[i] = float32(v)
	}

	res, err := s.collection.QueryEmbedding(ctx, embedding32, topK, where, nil)
	if err != nil {
		return nil, fmt.Errorf("querying vector index: %w", err)
	}

	matches := make([]Match, len(res))
	for i, doc := range res {
		matches[i] = Match{
			Entry: Entry{ID: doc.ID, Text: doc.Content, Metadata: doc.Metadata},
			Score: float64(doc.Similarity),
		}
	}
	return matches, nil
}

// RankByCosine ranks entries against a query embedding purely in memory,
// without touching the chromem-backed index. It's the path for small,
// ephemeral candidate sets -- e.g. re-scoring the tags contained in one
// matched span -- where standing up a collection isn't worth it.
func RankByCosine(query []float64, entries []Entry, topK int) ([]Match, error) {
	return Rank(query, entries, topK, MetricCosine)
}
