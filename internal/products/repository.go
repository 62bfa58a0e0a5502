package products

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/curator/pkg/pagination"
	"github.com/JaimeStill/curator/pkg/query"
	"github.com/JaimeStill/curator/pkg/repository"
	"github.com/JaimeStill/curator/pkg/storage"
)

var dbErrors = repository.Errors{
	NotFound:  ErrNotFound,
	Reference: ErrNotFound,
}

const insertProduct = `
	INSERT INTO products (text_content, category, product_type, variant_price, compare_at_price, taxable, variant_image)
	VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7)`

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the product System backed by db, archiving uploads to store.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "products"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) Pending(ctx context.Context) ([]Product, error) {
	needsReview := true
	q, args := Filters{NeedsReview: &needsReview}.
		Apply(query.NewBuilder(projection, reviewOrder...)).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("query pending products: %w", err)
	}
	return items, nil
}

func (r *repo) Catalog(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Product], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, catalogOrder...).
		WhereSearch(page.Search, "text_content", "category", "product_type")
	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Product, error) {
	q, args := query.NewBuilder(projection).BuildSingle("id", id)

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProduct)
	if err != nil {
		return nil, dbErrors.Map(err)
	}
	return &p, nil
}

func (r *repo) SubmitFeedback(ctx context.Context, cmd FeedbackCommand) (*FeedbackResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	text := *cmd.Correction

	status := StatusCorrected
	if cmd.IsApproved {
		status = StatusApproved
	}

	feedbackID, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (uuid.UUID, error) {
		var original string
		err := tx.QueryRowContext(ctx,
			"SELECT text_content FROM products WHERE id = $1 FOR UPDATE",
			cmd.ProductID,
		).Scan(&original)
		if err != nil {
			return uuid.Nil, err
		}

		var id uuid.UUID
		err = tx.QueryRowContext(ctx, `
			INSERT INTO feedback (product_id, is_approved, correction, original_text)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			cmd.ProductID, cmd.IsApproved, text, original,
		).Scan(&id)
		if err != nil {
			return uuid.Nil, err
		}

		err = repository.ExecExpectOne(ctx, tx, `
			UPDATE products
			SET text_content = $2, status = $3, needs_review = FALSE, updated_at = now()
			WHERE id = $1`,
			cmd.ProductID, text, status,
		)
		return id, err
	})
	if err != nil {
		return nil, dbErrors.Map(err)
	}

	r.logger.Info("feedback recorded",
		"product_id", cmd.ProductID,
		"feedback_id", feedbackID,
		"status", status,
	)
	return &FeedbackResult{Status: "success", FeedbackID: feedbackID}, nil
}

func (r *repo) Upload(ctx context.Context, cmd UploadCommand) (*ImportResult, error) {
	rows, err := ParseImport(bytes.NewReader(cmd.Data))
	if err != nil {
		return nil, err
	}

	key, err := r.storage.Archive(ctx, cmd.Filename, bytes.NewReader(cmd.Data), cmd.ContentType)
	if err != nil && !errors.Is(err, storage.ErrDisabled) {
		r.logger.Warn("upload archive failed", "filename", cmd.Filename, "error", err)
	}

	sets := make([][]any, len(rows))
	for i, row := range rows {
		sets[i] = []any{
			row.TextContent,
			row.Category,
			row.ProductType,
			row.VariantPrice,
			row.CompareAtPrice,
			row.Taxable,
			row.VariantImage,
		}
	}

	count, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (int64, error) {
		return repository.ExecEach(ctx, tx, insertProduct, sets)
	})
	if err != nil {
		return nil, fmt.Errorf("import products: %w", err)
	}

	r.logger.Info("products imported", "filename", cmd.Filename, "count", count, "archive", key)
	return &ImportResult{
		Count:   int(count),
		Archive: key,
		Message: fmt.Sprintf("Successfully uploaded %d products", count),
	}, nil
}

func (r *repo) Archived(ctx context.Context, key string) (io.ReadCloser, error) {
	return r.storage.Download(ctx, key)
}

func (r *repo) Reviewed(ctx context.Context) ([]Product, error) {
	q, args := query.
		NewBuilder(projection, reviewOrder...).
		WhereIn("status", StatusApproved, StatusCorrected).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("query reviewed products: %w", err)
	}
	return items, nil
}
