package port

import (
	"context"

	"invoiceinsight/internal/domain"
)

// TextExtractor turns a raw document into plain text. It never fails: problems are
// reported as a diagnostic string in place of the text.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.RawDocument) string
}
