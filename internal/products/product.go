// Package products implements the product review domain: the pending queue,
// reviewer feedback, CSV import with raw-file archiving, and Shopify export.
package products

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Review states stored in products.status.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusCorrected = "corrected"
)

// Product is one catalog row. JSON names match the table columns, which is the
// shape the reviewer's normalizer expects.
type Product struct {
	ID             uuid.UUID `json:"id"`
	TextContent    string    `json:"text_content"`
	Category       *string   `json:"category"`
	ProductType    *string   `json:"product_type"`
	VariantPrice   *string   `json:"variant_price"`
	CompareAtPrice *string   `json:"compare_at_price"`
	Taxable        bool      `json:"taxable"`
	Status         string    `json:"status"`
	VariantImage   *string   `json:"variant_image"`
	Confidence     float64   `json:"confidence"`
	NeedsReview    bool      `json:"needs_review"`
	CreatedAt      time.Time `json:"created_at"`
}

// FeedbackCommand is the reviewer's decision for one product. Correction holds the
// text to persist: the original text on approve, the edited text on correct.
type FeedbackCommand struct {
	ProductID  uuid.UUID `json:"product_id"`
	IsApproved bool      `json:"is_approved"`
	Correction *string   `json:"correction"`
}

// Validate reports whether cmd can be stored. The correction field must be
// present; an approval may carry blank text because it echoes the product's
// current text, which can itself be empty.
func (c FeedbackCommand) Validate() error {
	if c.ProductID == uuid.Nil {
		return ErrInvalidID
	}
	if c.Correction == nil {
		return ErrCorrectionRequired
	}
	if !c.IsApproved && strings.TrimSpace(*c.Correction) == "" {
		return ErrCorrectionRequired
	}
	return nil
}

// FeedbackResult acknowledges a stored decision.
type FeedbackResult struct {
	Status     string    `json:"status"`
	FeedbackID uuid.UUID `json:"feedback_id"`
}

// ImportRow is one product parsed from an uploaded CSV.
type ImportRow struct {
	TextContent    string
	Category       *string
	ProductType    *string
	VariantPrice   *string
	CompareAtPrice *string
	Taxable        bool
	VariantImage   *string
}

// UploadCommand carries a raw CSV upload.
type UploadCommand struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ImportResult reports what an upload produced. Archive is empty when archiving
// was disabled or failed.
type ImportResult struct {
	Count   int    `json:"count"`
	Archive string `json:"archive,omitempty"`
	Message string `json:"message"`
}
