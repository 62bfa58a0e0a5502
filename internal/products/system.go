package products

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/JaimeStill/curator/pkg/pagination"
)

// System defines the product domain operations.
type System interface {
	Handler(maxUploadSize int64) *Handler

	// Pending returns every product awaiting review, oldest first.
	Pending(ctx context.Context) ([]Product, error)
	// Catalog pages through all products with optional filters.
	Catalog(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Product], error)
	Find(ctx context.Context, id uuid.UUID) (*Product, error)

	// SubmitFeedback records a decision and applies it to the product atomically.
	SubmitFeedback(ctx context.Context, cmd FeedbackCommand) (*FeedbackResult, error)

	// Upload archives the raw file (best effort) and imports its rows.
	Upload(ctx context.Context, cmd UploadCommand) (*ImportResult, error)
	// Archived opens a previously archived upload. The caller closes it.
	Archived(ctx context.Context, key string) (io.ReadCloser, error)

	// Reviewed returns approved and corrected products for export.
	Reviewed(ctx context.Context) ([]Product, error)
}
