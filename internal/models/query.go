package models

// RetrievedDocument is one ranked retrieval hit with its raw similarity score
// and the normalized 0-100 confidence. Derived per query, never persisted.
type RetrievedDocument struct {
	Content         string                 `json:"content"`
	Metadata        map[string]interface{} `json:"metadata"`
	SimilarityScore float64                `json:"similarityScore"`
	ConfidenceScore float64                `json:"confidenceScore"`
	AboveThreshold  bool                   `json:"isAboveThreshold,omitempty"`
}

// ConfidenceReport is the richer confidence breakdown returned by advanced
// queries. All values are on the 0-100 scale.
type ConfidenceReport struct {
	Overall   float64 `json:"overall"`
	Average   float64 `json:"average"`
	Top       float64 `json:"top"`
	Threshold float64 `json:"threshold"`
}

// QueryResult is the outcome of one question against one namespace.
// OverallConfidence is the confidence of the top-ranked document (0-100),
// or 0 when nothing was retrieved.
type QueryResult struct {
	Question          string              `json:"question"`
	Answer            string              `json:"answer"`
	Namespace         string              `json:"namespace"`
	TopK              int                 `json:"topK"`
	OverallConfidence float64             `json:"overallConfidence"`
	Documents         []RetrievedDocument `json:"documents"`
	Confidence        *ConfidenceReport   `json:"confidence,omitempty"`
	Warning           string              `json:"warning,omitempty"`
}
