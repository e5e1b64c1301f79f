package documents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/respondo/internal/models"
)

func TestPrepare_Provenance(t *testing.T) {
	texts := []string{"first", "second", "third"}

	chunks := Prepare(texts, "manual.pdf", "kb", nil)
	require.Len(t, chunks, 3)

	for i, c := range chunks {
		assert.Equal(t, texts[i], c.Text)
		assert.Equal(t, "manual.pdf", c.Metadata.Source)
		assert.Equal(t, i, c.Metadata.Chunk)
		assert.Equal(t, 3, c.Metadata.TotalChunks)
		assert.Equal(t, "kb", c.Metadata.Namespace)
	}
}

func TestPrepare_DefaultNamespace(t *testing.T) {
	chunks := Prepare([]string{"text"}, "src", "", nil)
	require.Len(t, chunks, 1)
	assert.Equal(t, models.DefaultNamespace, chunks[0].Metadata.Namespace)
}

func TestPrepare_ExtraMetadata(t *testing.T) {
	extra := map[string]interface{}{
		"author": "support-team",
		// Reserved keys in extra must not shadow provenance fields.
		"source": "spoofed",
		"chunk":  99,
	}

	chunks := Prepare([]string{"a", "b"}, "guide.txt", "default", extra)
	require.Len(t, chunks, 2)

	payload := chunks[1].Metadata.Map()
	assert.Equal(t, "support-team", payload["author"])
	assert.Equal(t, "guide.txt", payload["source"])
	assert.Equal(t, 1, payload["chunk"])
	assert.Equal(t, 2, payload["totalChunks"])

	// Caller's map is untouched.
	assert.Equal(t, "spoofed", extra["source"])
	assert.Equal(t, 99, extra["chunk"])
}

func TestPrepare_Empty(t *testing.T) {
	assert.Empty(t, Prepare(nil, "src", "default", nil))
}
