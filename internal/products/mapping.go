package products

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/curator/pkg/query"
	"github.com/JaimeStill/curator/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "products", "p").
	Project("id", "id").
	Project("text_content", "text_content").
	Project("category", "category").
	Project("product_type", "product_type").
	ProjectCast("variant_price", "text", "variant_price").
	ProjectCast("compare_at_price", "text", "compare_at_price").
	Project("taxable", "taxable").
	Project("status", "status").
	Project("variant_image", "variant_image").
	Project("confidence", "confidence").
	Project("needs_review", "needs_review").
	Project("created_at", "created_at")

var reviewOrder = []query.SortField{
	{Field: "created_at"},
	{Field: "id"},
}

var catalogOrder = []query.SortField{
	{Field: "created_at", Descending: true},
	{Field: "id"},
}

// Filters narrows a catalog listing. Nil fields are ignored.
type Filters struct {
	Status      *string
	Category    *string
	NeedsReview *bool
}

// Apply adds the filter conditions to b.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("status", f.Status).
		WhereEquals("category", f.Category).
		WhereEquals("needs_review", f.NeedsReview)
}

// FiltersFromQuery reads status, category, and needs_review from query values.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if s := values.Get("status"); s != "" {
		f.Status = &s
	}
	if c := values.Get("category"); c != "" {
		f.Category = &c
	}
	if nr, err := strconv.ParseBool(values.Get("needs_review")); err == nil {
		f.NeedsReview = &nr
	}
	return f
}

func scanProduct(s repository.Scanner) (Product, error) {
	var p Product
	err := s.Scan(
		&p.ID,
		&p.TextContent,
		&p.Category,
		&p.ProductType,
		&p.VariantPrice,
		&p.CompareAtPrice,
		&p.Taxable,
		&p.Status,
		&p.VariantImage,
		&p.Confidence,
		&p.NeedsReview,
		&p.CreatedAt,
	)
	return p, err
}
