package products

import "github.com/JaimeStill/curator/pkg/openapi"

type productsSpec struct {
	Pending  *openapi.Operation
	Catalog  *openapi.Operation
	Find     *openapi.Operation
	Feedback *openapi.Operation
	Upload   *openapi.Operation
	Archived *openapi.Operation
	Export   *openapi.Operation
	Schemas  map[string]*openapi.Schema
}

var spec = productsSpec{
	Pending: &openapi.Operation{
		Summary:     "List products awaiting review",
		Description: "Products with needs_review set, oldest first. Returns an empty array when nothing is pending.",
		Responses: map[int]*openapi.Response{
			200: {
				Description: "Pending products",
				Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: openapi.SchemaRef("Product")}},
				},
			},
		},
	},
	Catalog: &openapi.Operation{
		Summary: "Search the product catalog",
		Parameters: []*openapi.Parameter{
			openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
			openapi.QueryParam("page_size", "integer", "Results per page", false),
			openapi.QueryParam("search", "string", "Search product text and category", false),
			openapi.QueryParam("sort", "string", "Comma-separated sort fields, - prefix for descending", false),
			openapi.QueryParam("status", "string", "Filter by review status", false),
			openapi.QueryParam("category", "string", "Filter by category", false),
			openapi.QueryParam("needs_review", "boolean", "Filter by review flag", false),
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Product page", "ProductPage"),
		},
	},
	Find: &openapi.Operation{
		Summary:    "Get a product",
		Parameters: []*openapi.Parameter{openapi.PathParam("id", "Product ID")},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Product", "Product"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Feedback: &openapi.Operation{
		Summary:     "Submit a review decision",
		Description: "Records the decision and replaces the product text with correction. Approvals carry the original text.",
		Tags:        []string{"Feedback"},
		RequestBody: openapi.RequestBodyJSON("FeedbackCommand", true),
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseJSON("Decision stored", "FeedbackResult"),
			400: openapi.ResponseRef("BadRequest"),
			404: openapi.ResponseRef("NotFound"),
		},
	},
	Upload: &openapi.Operation{
		Summary:     "Import products from CSV",
		Description: "Archives the raw file when storage is configured, then creates one pending product per data row.",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"multipart/form-data": {
					Schema: &openapi.Schema{
						Type: "object",
						Properties: map[string]*openapi.Schema{
							"file": {Type: "string", Format: "binary", Description: "CSV file"},
						},
						Required: []string{"file"},
					},
				},
			},
		},
		Responses: map[int]*openapi.Response{
			201: openapi.ResponseJSON("Products imported", "ImportResult"),
			400: openapi.ResponseRef("BadRequest"),
			413: openapi.ResponseRef("PayloadTooLarge"),
		},
	},
	Archived: &openapi.Operation{
		Summary: "Download an archived upload",
		Parameters: []*openapi.Parameter{
			{Name: "key", In: "path", Required: true, Description: "Archive key", Schema: &openapi.Schema{Type: "string"}},
		},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseFile("Raw CSV", "text/csv"),
			404: openapi.ResponseRef("NotFound"),
			503: openapi.ResponseRef("ServiceUnavailable"),
		},
	},
	Export: &openapi.Operation{
		Summary:    "Export reviewed products as a Shopify import CSV",
		Parameters: []*openapi.Parameter{openapi.QueryParam("vendor", "string", "Vendor column value", false)},
		Responses: map[int]*openapi.Response{
			200: openapi.ResponseFile("Shopify CSV", "text/csv"),
		},
	},
	Schemas: map[string]*openapi.Schema{
		"Product": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"id":               {Type: "string", Format: "uuid"},
				"text_content":     {Type: "string"},
				"category":         {Type: "string"},
				"product_type":     {Type: "string"},
				"variant_price":    {Type: "string", Example: "14.99"},
				"compare_at_price": {Type: "string"},
				"taxable":          {Type: "boolean"},
				"status":           {Type: "string", Enum: []any{StatusPending, StatusApproved, StatusCorrected}},
				"variant_image":    {Type: "string"},
				"confidence":       {Type: "number"},
				"needs_review":     {Type: "boolean"},
				"created_at":       {Type: "string", Format: "date-time"},
			},
		},
		"ProductPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Product")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
		"FeedbackCommand": {
			Type:     "object",
			Required: []string{"product_id", "is_approved", "correction"},
			Properties: map[string]*openapi.Schema{
				"product_id":  {Type: "string", Format: "uuid"},
				"is_approved": {Type: "boolean"},
				"correction":  {Type: "string", Description: "Text to store"},
			},
		},
		"FeedbackResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status":      {Type: "string", Example: "success"},
				"feedback_id": {Type: "string", Format: "uuid"},
			},
		},
		"ImportResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"count":   {Type: "integer"},
				"archive": {Type: "string", Description: "Archive key, empty when storage is disabled"},
				"message": {Type: "string"},
			},
		},
	},
}
