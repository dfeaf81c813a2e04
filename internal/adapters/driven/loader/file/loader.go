// Package file provides a document loader for pre-extracted report text.
package file

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
	"github.com/finsight-labs/finsight-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader reads a plain-text file produced by PDF extraction. Pages are
// separated by form feed characters (the pdftotext convention); the loader
// builds the page boundary table from those separators.
type Loader struct {
	path  string
	title string
}

// NewLoader creates a loader for the extracted text file at path.
// An empty title defaults to the file's base name without extension.
func NewLoader(path, title string) *Loader {
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return &Loader{path: path, title: title}
}

// Load reads the extracted document and resolves its page boundaries.
func (l *Loader) Load(ctx context.Context) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", l.path, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: document %s is empty", domain.ErrInvalidInput, l.path)
	}

	text, pages := splitPages(string(raw))

	return &domain.Document{
		ID:        documentID(l.path),
		Title:     l.title,
		Text:      text,
		Pages:     pages,
		PageCount: len(pages),
		LoadedAt:  time.Now().UTC(),
	}, nil
}

// splitPages builds the page boundary table from form feed separators.
// Each separator is replaced with a newline of the same byte length so
// chunk offsets computed against the returned text stay valid.
func splitPages(raw string) (string, []domain.PageBoundary) {
	pages := []domain.PageBoundary{{Page: 1, Offset: 0}}
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\f' && i+1 < len(raw) {
			pages = append(pages, domain.PageBoundary{
				Page:   len(pages) + 1,
				Offset: i + 1,
			})
		}
	}
	return strings.ReplaceAll(raw, "\f", "\n"), pages
}

// documentID derives a stable identifier from the source path, so
// re-ingesting the same file replaces its previous entries.
func documentID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	h := sha1.Sum([]byte(abs))
	return hex.EncodeToString(h[:8])
}
