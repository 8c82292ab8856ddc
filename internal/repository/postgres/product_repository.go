package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/partsbridge/backend-go/internal/domain"
)

type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// FindByNames fetches the reconciliation projection of every product whose
// name is in the list. Names are not unique, so the result may hold several
// records per name.
func (r *ProductRepository) FindByNames(ctx context.Context, names []string) ([]domain.ExistingProduct, error) {
	if len(names) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, name, specifications
		FROM products
		WHERE name = ANY($1)
	`
	var products []domain.ExistingProduct
	if err := r.db.SelectContext(ctx, &products, query, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("failed to fetch products by name: %w", err)
	}
	return products, nil
}

// BulkInsert inserts the batch in a single statement, skipping rows whose
// id already exists, and returns the number of rows actually inserted.
func (r *ProductRepository) BulkInsert(ctx context.Context, products []domain.Product) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}
	query := `
		INSERT INTO products (
			id, cpn, source, name, datasheet_link, description,
			manufacturer, mfr_part_number, stock_qty, spq, moq,
			ltwks, remarks, specifications, category_id, created_at, updated_at
		) VALUES (
			:id, :cpn, :source, :name, :datasheet_link, :description,
			:manufacturer, :mfr_part_number, :stock_qty, :spq, :moq,
			:ltwks, :remarks, :specifications, :category_id, NOW(), NOW()
		)
		ON CONFLICT (id) DO NOTHING
	`
	res, err := r.db.NamedExecContext(ctx, query, products)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert products: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count inserted products: %w", err)
	}
	return inserted, nil
}

// UpdateBatch applies every update in the batch inside one transaction;
// either all of them commit or none do.
func (r *ProductRepository) UpdateBatch(ctx context.Context, products []domain.Product) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			UPDATE products SET
				cpn = $2,
				source = $3,
				name = $4,
				datasheet_link = $5,
				description = $6,
				manufacturer = $7,
				mfr_part_number = $8,
				stock_qty = $9,
				spq = $10,
				moq = $11,
				ltwks = $12,
				remarks = $13,
				specifications = $14,
				category_id = $15,
				updated_at = NOW()
			WHERE id = $1
		`
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, p := range products {
			_, err := stmt.ExecContext(ctx,
				p.ID, p.CPN, p.Source, p.Name, p.DatasheetLink, p.Description,
				p.Manufacturer, p.MfrPartNumber, p.StockQty, p.SPQ, p.MOQ,
				p.LTWks, p.Remarks, p.Specifications, p.CategoryID,
			)
			if err != nil {
				return fmt.Errorf("failed to update product %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// Create inserts a single product.
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (
			id, cpn, source, name, datasheet_link, description,
			manufacturer, mfr_part_number, stock_qty, spq, moq,
			ltwks, remarks, specifications, category_id, created_at, updated_at
		) VALUES (
			:id, :cpn, :source, :name, :datasheet_link, :description,
			:manufacturer, :mfr_part_number, :stock_qty, :spq, :moq,
			:ltwks, :remarks, :specifications, :category_id, NOW(), NOW()
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// List returns one page of the catalog, newest first with id as tie-break.
func (r *ProductRepository) List(ctx context.Context, page, limit int) (*domain.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM products`); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query := `
		SELECT id, cpn, source, name, datasheet_link, description,
		       manufacturer, mfr_part_number, stock_qty, spq, moq,
		       ltwks, remarks, specifications, category_id, created_at, updated_at
		FROM products
		ORDER BY created_at DESC, id ASC
		LIMIT $1 OFFSET $2
	`
	products := make([]domain.Product, 0, limit)
	if err := r.db.SelectContext(ctx, &products, query, limit, (page-1)*limit); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	totalPages := (total + limit - 1) / limit
	return &domain.ProductPage{
		Products:   products,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}
