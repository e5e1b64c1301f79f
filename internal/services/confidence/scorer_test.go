package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

func TestToConfidence_Anchors(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"perfect similarity", 1.0, 100.00},
		{"opposite", -1.0, 0.00},
		{"orthogonal", 0.0, 50.00},
		{"high", 0.9, 95.00},
		{"mid", 0.5, 75.00},
		{"low positive", 0.2, 60.00},
		{"negative", -0.1, 45.00},
		{"rounding", 0.333, 66.65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToConfidence(tt.raw)
			if got != tt.want {
				t.Errorf("ToConfidence(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestToConfidence_BoundedAndMonotonic(t *testing.T) {
	prev := -1.0
	for raw := -1.0; raw <= 1.0; raw += 0.01 {
		c := ToConfidence(raw)
		if c < 0 || c > 100 {
			t.Fatalf("ToConfidence(%v) = %v out of [0,100]", raw, c)
		}
		if c < prev {
			t.Fatalf("ToConfidence not monotonic at %v: %v < %v", raw, c, prev)
		}
		prev = c
	}
}

func scoredChunks(scores ...float64) []interfaces.ScoredChunk {
	out := make([]interfaces.ScoredChunk, len(scores))
	for i, s := range scores {
		out[i] = interfaces.ScoredChunk{
			Chunk: models.Chunk{Text: "chunk"},
			Score: s,
		}
	}
	return out
}

func TestFilterByThreshold(t *testing.T) {
	scored := scoredChunks(0.9, 0.5, 0.2, -0.1, -0.5)

	t.Run("threshold 0.7 keeps two", func(t *testing.T) {
		// (0.9+1)/2 = 0.95 and (0.5+1)/2 = 0.75 pass; (0.2+1)/2 = 0.6 fails.
		got := FilterByThreshold(scored, 0.7)
		assert.Len(t, got, 2)
		assert.Equal(t, 0.9, got[0].Score)
		assert.Equal(t, 0.5, got[1].Score)
	})

	t.Run("threshold 0 keeps all", func(t *testing.T) {
		assert.Len(t, FilterByThreshold(scored, 0), 5)
	})

	t.Run("threshold 1 keeps none", func(t *testing.T) {
		assert.Empty(t, FilterByThreshold(scored, 1))
	})

	t.Run("boundary is inclusive", func(t *testing.T) {
		// (0.5+1)/2 == 0.75 exactly.
		got := FilterByThreshold(scoredChunks(0.5), 0.75)
		assert.Len(t, got, 1)
	})

	t.Run("order preserved", func(t *testing.T) {
		got := FilterByThreshold(scored, 0.4)
		for i := 1; i < len(got); i++ {
			if got[i].Score > got[i-1].Score {
				t.Errorf("order not preserved at %d", i)
			}
		}
	})
}

func TestOverallAndAverage(t *testing.T) {
	assert.Equal(t, 0.0, Overall(nil))
	assert.Equal(t, 95.0, Overall([]float64{95.0, 75.0, 60.0}))

	assert.Equal(t, 0.0, Average(nil))
	assert.Equal(t, 76.67, Average([]float64{95.0, 75.0, 60.0}))
}
