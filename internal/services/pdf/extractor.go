// -----------------------------------------------------------------------
// PDF Extractor Service - Extract text content from PDF documents
// Uses pdfcpu for Go-native PDF processing
// -----------------------------------------------------------------------

package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/interfaces"
	"github.com/ternarybob/respondo/internal/models"
)

// Extractor implements the PDFExtractor interface using pdfcpu
type Extractor struct {
	logger  arbor.ILogger
	tempDir string
}

// Compile-time interface assertion
var _ interfaces.PDFExtractor = (*Extractor)(nil)

// NewExtractor creates a new PDF extractor service
func NewExtractor(logger arbor.ILogger) *Extractor {
	// Create a temp directory for PDF processing
	tempDir := filepath.Join(os.TempDir(), "respondo-pdf")
	os.MkdirAll(tempDir, 0755)

	return &Extractor{
		logger:  logger,
		tempDir: tempDir,
	}
}

// ExtractTextFromBytes extracts the full text of a PDF document. Pages are
// joined in order with blank lines so downstream chunking can split on
// paragraph boundaries. An error wrapping ErrExtraction is returned when the
// document cannot be parsed or yields no text at all.
func (e *Extractor) ExtractTextFromBytes(ctx context.Context, pdfContent []byte) (string, error) {
	if len(pdfContent) == 0 {
		return "", fmt.Errorf("%w: empty PDF content", models.ErrExtraction)
	}

	tempFile, outDir, cleanup, err := e.stage(pdfContent)
	if err != nil {
		return "", err
	}
	defer cleanup()

	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadContextFile(tempFile)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read PDF: %v", models.ErrExtraction, err)
	}

	pageCount := pdfCtx.PageCount

	if err := api.ExtractContentFile(tempFile, outDir, nil, conf); err != nil {
		return "", fmt.Errorf("%w: failed to extract PDF content: %v", models.ErrExtraction, err)
	}

	// pdfcpu writes one Content_page_N file per page
	pageTexts := make(map[int]string)
	files, _ := os.ReadDir(outDir)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		content, err := os.ReadFile(filepath.Join(outDir, file.Name()))
		if err != nil {
			continue
		}
		var pageNum int
		if _, err := fmt.Sscanf(file.Name(), "Content_page_%d", &pageNum); err == nil {
			pageTexts[pageNum] = string(content)
		}
	}

	var fullText strings.Builder
	for pageNum := 1; pageNum <= pageCount; pageNum++ {
		text := strings.TrimSpace(pageTexts[pageNum])
		if text == "" {
			continue
		}
		if fullText.Len() > 0 {
			fullText.WriteString("\n\n")
		}
		fullText.WriteString(text)
	}

	if fullText.Len() == 0 {
		return "", fmt.Errorf("%w: no extractable text in PDF", models.ErrExtraction)
	}

	e.logger.Debug().
		Int("pages", pageCount).
		Int("text_length", fullText.Len()).
		Msg("Extracted PDF text")

	return fullText.String(), nil
}

// stage writes the PDF bytes to a file unique to this call and creates a
// matching output directory for the extracted pages. Paths must not be shared
// between calls because uploads are handled concurrently. The returned cleanup
// removes both.
func (e *Extractor) stage(pdfContent []byte) (string, string, func(), error) {
	f, err := os.CreateTemp(e.tempDir, "extract_*.pdf")
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to create temp PDF file: %w", err)
	}
	tempFile := f.Name()

	if _, err := f.Write(pdfContent); err != nil {
		f.Close()
		os.Remove(tempFile)
		return "", "", nil, fmt.Errorf("failed to write temp PDF file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return "", "", nil, fmt.Errorf("failed to write temp PDF file: %w", err)
	}

	outDir, err := os.MkdirTemp(e.tempDir, "pages_")
	if err != nil {
		os.Remove(tempFile)
		return "", "", nil, fmt.Errorf("failed to create extraction dir: %w", err)
	}

	cleanup := func() {
		os.Remove(tempFile)
		os.RemoveAll(outDir)
	}
	return tempFile, outDir, cleanup, nil
}
