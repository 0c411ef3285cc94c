// Package index provides an in-memory vector index over the chunks of a
// single page. Chunks are embedded once at build time; queries run a
// brute-force cosine similarity search over the stored vectors.
package index

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/firebase/genkit/go/ai"
)

type entry struct {
	text string
	vec  []float32
}

// Index holds embedded chunks for one page and answers top-k similarity
// queries against them. Safe for concurrent use.
type Index struct {
	mu       sync.RWMutex
	embedder ai.Embedder
	entries  []entry
}

// Build embeds all chunks in a single batch request and returns an index
// over them. The embedder is retained for query embedding.
func Build(ctx context.Context, embedder ai.Embedder, chunks []string) (*Index, error) {
	docs := make([]*ai.Document, len(chunks))
	for i, c := range chunks {
		docs[i] = ai.DocumentFromText(c, nil)
	}

	resp, err := embedder.Embed(ctx, &ai.EmbedRequest{Input: docs})
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(resp.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("embed chunks: got %d embeddings for %d chunks", len(resp.Embeddings), len(chunks))
	}

	entries := make([]entry, len(chunks))
	for i, emb := range resp.Embeddings {
		if len(emb.Embedding) == 0 {
			return nil, fmt.Errorf("embed chunks: empty embedding at %d", i)
		}
		entries[i] = entry{text: chunks[i], vec: emb.Embedding}
	}

	return &Index{embedder: embedder, entries: entries}, nil
}

// Search embeds the query and returns the texts of the topK most similar
// chunks, most similar first. Fewer than topK results come back when the
// index holds fewer chunks; an empty index yields no results and no error.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]string, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.entries) == 0 || topK <= 0 {
		return nil, nil
	}

	resp, err := ix.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(query, nil)},
	})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("embed query: empty embedding")
	}
	qvec := resp.Embeddings[0].Embedding

	type scored struct {
		idx   int
		score float64
	}
	results := make([]scored, len(ix.entries))
	for i, e := range ix.entries {
		results[i] = scored{idx: i, score: cosineSimilarity(qvec, e.vec)}
	}
	slices.SortFunc(results, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	if topK > len(results) {
		topK = len(results)
	}
	texts := make([]string, topK)
	for i := 0; i < topK; i++ {
		texts[i] = ix.entries[results[i].idx].text
	}
	return texts, nil
}

// Len reports the number of indexed chunks.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
