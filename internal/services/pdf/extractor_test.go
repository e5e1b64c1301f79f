package pdf

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/models"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e := NewExtractor(arbor.NewLogger())
	e.tempDir = t.TempDir()
	return e
}

func TestExtractTextFromBytes_Empty(t *testing.T) {
	e := newTestExtractor(t)

	_, err := e.ExtractTextFromBytes(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrExtraction)
}

func TestExtractTextFromBytes_InvalidPDF(t *testing.T) {
	e := newTestExtractor(t)

	_, err := e.ExtractTextFromBytes(context.Background(), []byte("not a pdf"))
	assert.ErrorIs(t, err, models.ErrExtraction)
}

func TestStage_UniquePaths(t *testing.T) {
	e := newTestExtractor(t)

	fileA, dirA, cleanupA, err := e.stage([]byte("first"))
	require.NoError(t, err)
	defer cleanupA()

	fileB, dirB, cleanupB, err := e.stage([]byte("second"))
	require.NoError(t, err)
	defer cleanupB()

	assert.NotEqual(t, fileA, fileB, "concurrent calls must not share a staged file")
	assert.NotEqual(t, dirA, dirB, "concurrent calls must not share an output dir")

	contentA, err := os.ReadFile(fileA)
	require.NoError(t, err)
	assert.Equal(t, "first", string(contentA))

	contentB, err := os.ReadFile(fileB)
	require.NoError(t, err)
	assert.Equal(t, "second", string(contentB))
}

func TestStage_Cleanup(t *testing.T) {
	e := newTestExtractor(t)

	file, dir, cleanup, err := e.stage([]byte("payload"))
	require.NoError(t, err)

	cleanup()

	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err), "staged file should be removed")
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "output dir should be removed")
}

func TestStage_ConcurrentCallsIsolated(t *testing.T) {
	e := newTestExtractor(t)

	const workers = 8
	paths := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			file, _, cleanup, err := e.stage([]byte{byte('a' + i)})
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			defer cleanup()

			content, err := os.ReadFile(file)
			if err != nil {
				t.Errorf("worker %d: %v", i, err)
				return
			}
			if string(content) != string([]byte{byte('a' + i)}) {
				t.Errorf("worker %d read another call's bytes: %q", i, content)
			}
			paths[i] = file
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		assert.False(t, seen[p], "staged path %s reused across calls", p)
		seen[p] = true
	}
}
