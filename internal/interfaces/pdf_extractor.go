package interfaces

import "context"

// PDFExtractor extracts text content from PDF documents.
type PDFExtractor interface {
	ExtractTextFromBytes(ctx context.Context, pdfContent []byte) (string, error)
}
