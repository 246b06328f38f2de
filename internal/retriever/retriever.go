// Package retriever ranks stored chunks against a query embedding. Retrieval
// is a full scan: every candidate is scored in process. That caps corpus
// size, and swapping the candidate fetch for an indexed nearest-neighbor
// query is the extension point if it ever matters.
package retriever

import (
	"math"
	"sort"

	"docchat/internal/models"
	"docchat/internal/store"
)

// DefaultTopK is the number of chunks assembled into the answer context.
const DefaultTopK = 5

// ScoredChunk is a stored chunk plus its relevance to one query. It lives
// only for the duration of that query.
type ScoredChunk struct {
	Document   store.Document
	Similarity float64
}

// CosineSimilarity measures directional alignment of two vectors in [-1, 1].
// A zero-magnitude, mismatched-length, or otherwise malformed pair scores
// -Inf so it ranks last instead of crashing the sort.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.Inf(-1)
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return math.Inf(-1)
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return math.Inf(-1)
	}
	return sim
}

// Retrieve scores the candidates against the query embedding and returns the
// top k by descending similarity, ties kept in candidate order. A partition
// other than the "all" sentinel restricts the candidates before scoring;
// filtering after truncation could silently under-fill the top k.
func Retrieve(queryEmbedding []float32, candidates []store.Document, partition string, k int) []ScoredChunk {
	if k <= 0 {
		k = DefaultTopK
	}

	scoped := partition != "" && partition != models.PartitionAll
	scored := make([]ScoredChunk, 0, len(candidates))
	for _, doc := range candidates {
		if scoped && doc.Partition != partition {
			continue
		}
		scored = append(scored, ScoredChunk{
			Document:   doc,
			Similarity: CosineSimilarity(queryEmbedding, doc.Embedding.Slice()),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
