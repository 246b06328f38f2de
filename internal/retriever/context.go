package retriever

import (
	"fmt"
	"strings"
)

// BuildContext renders ranked chunks into the context block injected into the
// completion prompt, one "[filename - partition]: content" entry per chunk,
// separated by blank lines. Empty input yields an empty string, which the
// prompt treats as "no relevant context found".
func BuildContext(chunks []ScoredChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	entries := make([]string, len(chunks))
	for i, c := range chunks {
		entries[i] = fmt.Sprintf("[%s - %s]: %s", c.Document.Filename, c.Document.Partition, c.Document.Content)
	}
	return strings.Join(entries, "\n\n")
}
