// Package confidence normalizes raw cosine similarity scores into the 0-100
// confidence scale used for threshold-gated decisioning.
package confidence

import (
	"math"

	"github.com/ternarybob/respondo/internal/interfaces"
)

// ToConfidence converts a cosine similarity in [-1, 1] to a confidence
// percentage in [0, 100], rounded to 2 decimal places. This is the sole
// normalization rule: ((score + 1) / 2) * 100.
func ToConfidence(rawScore float64) float64 {
	return round2(((rawScore + 1) / 2) * 100)
}

// FilterByThreshold keeps only chunks whose normalized fraction
// (rawScore+1)/2 meets the threshold. Order is preserved.
func FilterByThreshold(scored []interfaces.ScoredChunk, threshold float64) []interfaces.ScoredChunk {
	filtered := make([]interfaces.ScoredChunk, 0, len(scored))
	for _, sc := range scored {
		if (sc.Score+1)/2 >= threshold {
			filtered = append(filtered, sc)
		}
	}
	return filtered
}

// Overall returns the confidence of the top-ranked score, or 0 when the
// sequence is empty.
func Overall(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	return scores[0]
}

// Average returns the mean of the given confidences, rounded to 2 decimal
// places, or 0 when the sequence is empty.
func Average(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return round2(sum / float64(len(scores)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
