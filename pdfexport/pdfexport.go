// Package pdfexport renders summary text as a paginated A4 PDF in the
// artifacts directory.
package pdfexport

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

// Document is an exported PDF artifact.
type Document struct {
	FileName string
	Path     string
}

// Exporter writes wrapped body text onto A4 pages with automatic page
// breaks. The only failure mode is underlying I/O.
type Exporter struct {
	Dir string
}

func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

func (e *Exporter) Export(text string) (*Document, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 10, text, "", "", false)

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifacts dir: %w", err)
	}
	fileName := fmt.Sprintf("news-summary-%s.pdf", uuid.NewString())
	path := filepath.Join(e.Dir, fileName)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return &Document{FileName: fileName, Path: path}, nil
}
