package ingest

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nlabel/arriba/document"
)

// OpenAIVectorizer fetches one embedding per tag text via the OpenAI
// embeddings endpoint and attaches it to the corresponding tag, populating
// the parallel per-code vector column.
type OpenAIVectorizer struct {
	Client *openai.Client
	Model  openai.EmbeddingModel
}

// NewOpenAIVectorizer builds a vectorizer around apiKey. An empty model
// defaults to openai.SmallEmbedding3.
func NewOpenAIVectorizer(apiKey string, model openai.EmbeddingModel) *OpenAIVectorizer {
	if model == "" {
		model = openai.SmallEmbedding3
	}
	return &OpenAIVectorizer{Client: openai.NewClient(apiKey), Model: model}
}

// Vectorize requests one embedding per entry in texts and calls
// doc.SetVector(taggerIdx, name, tagIDs[i], embedding) for each. tagIDs and
// texts must be the same length, typically the tag-local ids returned by a
// prior Tag call on the same code and the text of each of those tags' spans.
func (v *OpenAIVectorizer) Vectorize(ctx context.Context, doc *document.Document, taggerIdx int, name string, tagIDs []int, texts []string) error {
	if len(tagIDs) != len(texts) {
		return fmt.Errorf("tagIDs and texts length mismatch: %d != %d", len(tagIDs), len(texts))
	}
	if len(texts) == 0 {
		return nil
	}

	resp, err := v.Client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: v.Model,
	})
	if err != nil {
		return fmt.Errorf("requesting embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return fmt.Errorf("embedding response has %d vectors, expected %d", len(resp.Data), len(texts))
	}

	for i, d := range resp.Data {
		vec := make([]float64, len(d.Embedding))
		for j, f := range d.Embedding {
			vec[j] = float64(f)
		}
		doc.SetVector(taggerIdx, name, tagIDs[i], vec)
	}
	return nil
}
