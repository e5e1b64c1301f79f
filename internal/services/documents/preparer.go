// Package documents attaches provenance metadata to text chunks before
// indexing.
package documents

import (
	"github.com/ternarybob/respondo/internal/models"
)

// Prepare builds Chunks from split texts, attaching provenance: source id,
// dense 0-based chunk index, total chunk count, and namespace. Extra carries
// caller-supplied metadata; the provenance fields always win on key
// collision, and the caller's map is never mutated.
func Prepare(texts []string, sourceID, namespace string, extra map[string]interface{}) []models.Chunk {
	if namespace == "" {
		namespace = models.DefaultNamespace
	}

	chunks := make([]models.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, models.Chunk{
			Text: text,
			Metadata: models.ChunkMetadata{
				Source:      sourceID,
				Chunk:       i,
				TotalChunks: len(texts),
				Namespace:   namespace,
				Extra:       copyExtra(extra),
			},
		})
	}
	return chunks
}

// copyExtra clones the caller's metadata so chunks stay immutable after
// creation.
func copyExtra(extra map[string]interface{}) map[string]interface{} {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(extra))
	for k, v := range extra {
		out[k] = v
	}
	return out
}
