// Package chunker splits raw text into overlapping chunks for embedding.
package chunker

import (
	"fmt"
)

// DefaultChunkSize is the default maximum number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of characters shared between
// adjacent chunks.
const DefaultOverlap = 200

// separators is the boundary hierarchy tried in order when cutting a chunk:
// paragraph, line, sentence, word. A hard character cut is the last resort.
var separators = [][]rune{[]rune("\n\n"), []rune("\n"), []rune(". "), []rune(" ")}

// Splitter deterministically splits text into overlapping chunks. Each chunk
// is at most chunkSize characters, cut at the most natural boundary the size
// budget permits, and adjacent chunks share exactly overlap characters.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between adjacent chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter. Returns an error when the overlap is not smaller
// than the chunk size, which would prevent forward progress.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", s.overlap, s.chunkSize)
	}
	return s, nil
}

// ChunkSize returns the configured maximum chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split cuts text into an ordered sequence of chunks. Chunks are contiguous
// windows over the input: chunk i+1 begins exactly overlap characters before
// chunk i ends, so concatenating chunks while dropping the leading overlap of
// each reconstructs the input exactly. All offsets are measured in runes, so
// cuts never land inside a multi-byte character.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/(s.chunkSize-s.overlap)+1)
	start := 0

	for {
		remaining := len(runes) - start
		if remaining <= s.chunkSize {
			chunks = append(chunks, string(runes[start:]))
			return chunks
		}

		end := s.cutPoint(runes, start)
		chunks = append(chunks, string(runes[start:end]))
		start = end - s.overlap
	}
}

// cutPoint finds the end of the chunk starting at start. It prefers the last
// natural boundary inside the size budget, walking the separator hierarchy
// from coarsest to finest, and falls back to a hard cut at the budget. The
// cut always lands far enough past start that the next chunk advances beyond
// the overlap region.
func (s *Splitter) cutPoint(runes []rune, start int) int {
	limit := start + s.chunkSize
	window := runes[start:limit]

	// The cut must leave end-overlap strictly after start, or the stream
	// would stall re-reading the same text.
	minCut := s.overlap + 1

	for _, sep := range separators {
		idx := lastIndexRunes(window, sep)
		if idx < 0 {
			continue
		}
		end := idx + len(sep)
		if end >= minCut {
			return start + end
		}
	}

	// Hard character cut when no separator fits the budget.
	return limit
}

// lastIndexRunes returns the index of the last occurrence of sep in window,
// or -1 when sep is absent.
func lastIndexRunes(window, sep []rune) int {
	for i := len(window) - len(sep); i >= 0; i-- {
		match := true
		for j := range sep {
			if window[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
