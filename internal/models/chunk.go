package models

// DefaultNamespace is the vector store partition used when a request does not
// name one.
const DefaultNamespace = "default"

// ChunkMetadata carries provenance for one chunk of an ingested document.
// The typed fields are always present; Extra holds caller-supplied metadata
// that travels with the chunk into the vector store payload.
type ChunkMetadata struct {
	Source      string                 `json:"source"`
	Chunk       int                    `json:"chunk"`
	TotalChunks int                    `json:"totalChunks"`
	Namespace   string                 `json:"namespace"`
	Extra       map[string]interface{} `json:"-"`
}

// Chunk is the unit of embedding and retrieval: a bounded span of source text
// plus its provenance. Chunks are immutable once created.
type Chunk struct {
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

// Map flattens the metadata into a single payload map. Reserved provenance
// keys win over Extra entries of the same name.
func (m ChunkMetadata) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(m.Extra)+4)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["source"] = m.Source
	out["chunk"] = m.Chunk
	out["totalChunks"] = m.TotalChunks
	out["namespace"] = m.Namespace
	return out
}

// ChunkMetadataFromMap rebuilds typed metadata from a vector store payload.
// Unrecognized keys are preserved in Extra.
func ChunkMetadataFromMap(payload map[string]interface{}) ChunkMetadata {
	meta := ChunkMetadata{}
	extra := make(map[string]interface{})
	for k, v := range payload {
		switch k {
		case "source":
			if s, ok := v.(string); ok {
				meta.Source = s
			}
		case "chunk":
			meta.Chunk = toInt(v)
		case "totalChunks":
			meta.TotalChunks = toInt(v)
		case "namespace":
			if s, ok := v.(string); ok {
				meta.Namespace = s
			}
		default:
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		meta.Extra = extra
	}
	return meta
}

// toInt handles JSON numbers arriving as float64 from store payloads.
func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
