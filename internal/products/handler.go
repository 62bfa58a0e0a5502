package products

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/curator/pkg/handlers"
	"github.com/JaimeStill/curator/pkg/pagination"
	"github.com/JaimeStill/curator/pkg/routes"
	"github.com/JaimeStill/curator/pkg/storage"
)

const defaultVendor = "My Store"

// Handler provides HTTP endpoints for products and reviewer feedback.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a Handler bound to sys.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "products"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the feedback route and the /products group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Tags:    []string{"Products"},
		Schemas: spec.Schemas,
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/submit-feedback", Handler: h.SubmitFeedback, OpenAPI: spec.Feedback},
		},
		Children: []routes.Group{
			{
				Prefix: "/products",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.Pending, OpenAPI: spec.Pending},
					{Method: "GET", Pattern: "/catalog", Handler: h.Catalog, OpenAPI: spec.Catalog},
					{Method: "GET", Pattern: "/export", Handler: h.Export, OpenAPI: spec.Export},
					{Method: "POST", Pattern: "/upload", Handler: h.Upload, OpenAPI: spec.Upload},
					{Method: "GET", Pattern: "/uploads/{key...}", Handler: h.Archived, OpenAPI: spec.Archived},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find, OpenAPI: spec.Find},
				},
			},
		},
	}
}

// Pending returns the review queue as a JSON array.
func (h *Handler) Pending(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.Pending(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, items)
}

// Catalog returns a page of products filtered by query parameters.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	page := pagination.FromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.Catalog(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns one product by UUID.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	p, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, p)
}

// SubmitFeedback stores a reviewer decision.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var cmd FeedbackCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFeedback)
		return
	}
	if err := cmd.Validate(); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	result, err := h.sys.SubmitFeedback(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, result)
}

// Upload imports a multipart CSV sent in the "file" field.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadSize {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/csv"
	}

	result, err := h.sys.Upload(r.Context(), UploadCommand{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// Archived streams a previously archived upload.
func (h *Handler) Archived(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	body, err := h.sys.Archived(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("archive stream interrupted", "key", key, "error", err)
	}
}

// Export writes reviewed products as a Shopify import CSV. The vendor column
// comes from the vendor query parameter.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	items, err := h.sys.Reviewed(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	vendor := r.URL.Query().Get("vendor")
	if vendor == "" {
		vendor = defaultVendor
	}

	filename := fmt.Sprintf("shopify_import_%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if err := WriteShopify(w, items, vendor); err != nil {
		h.logger.Error("export write failed", "error", err)
	}
}
