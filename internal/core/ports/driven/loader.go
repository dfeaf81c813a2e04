package driven

import (
	"context"

	"github.com/finsight-labs/finsight-cli/internal/core/domain"
)

// DocumentLoader supplies the extracted document text and its page
// boundary table. PDF-to-text extraction happens outside the core; the
// loader only consumes its output.
type DocumentLoader interface {
	// Load reads the extracted document. The returned document is
	// immutable once loaded.
	Load(ctx context.Context) (*domain.Document, error)
}
