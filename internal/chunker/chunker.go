// Package chunker splits raw document text into bounded fragments, the unit
// of embedding and retrieval.
package chunker

import (
	"regexp"
	"strings"
)

// DefaultChunkSize bounds a chunk's length in characters.
const DefaultChunkSize = 1000

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// Chunk splits text on sentence-terminal punctuation and greedily packs the
// sentences into chunks of at most maxChunkSize characters, rejoined by ". ".
// A single sentence longer than maxChunkSize is never split further; it
// becomes its own oversized chunk. Empty input yields no chunks.
func Chunk(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultChunkSize
	}

	var chunks []string
	current := ""
	for _, sentence := range sentenceEnd.Split(text, -1) {
		if strings.TrimSpace(sentence) == "" {
			continue
		}
		switch {
		case current != "" && len(current)+len(sentence) > maxChunkSize:
			chunks = append(chunks, strings.TrimSpace(current))
			current = sentence
		case current == "":
			current = sentence
		default:
			current += ". " + sentence
		}
	}
	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}
	return chunks
}
