package repository

import (
	"context"
	"fmt"

	"github.com/catalabs/catalog_api/internal/database"
	"github.com/catalabs/catalog_api/internal/models"
)

// orderColumns is the allow-list of sortable listing columns. Anything
// outside it falls back to id, so no client value ever reaches the ORDER
// BY clause verbatim.
var orderColumns = map[string]bool{
	"id":   true,
	"name": true,
}

// OrderColumn returns the requested order column when allow-listed, id
// otherwise.
func OrderColumn(requested string) string {
	if orderColumns[requested] {
		return requested
	}
	return "id"
}

// ProductRepository provides persistence operations for the product table.
type ProductRepository struct {
	s Store
}

// NewProductRepository creates a ProductRepository over a session.
func NewProductRepository(s Store) *ProductRepository {
	return &ProductRepository{s: s}
}

// Insert creates a product from a validated create payload and returns the
// generated id. New products are always active.
func (r *ProductRepository) Insert(ctx context.Context, p *models.ProductCreatePayload) (int64, error) {
	fields := database.Fields{
		"name":        p.Name,
		"description": deref(p.Description),
		"barcode":     deref(p.Barcode),
		"unitprice":   derefFloat(p.UnitPrice),
		"active":      true,
	}
	return r.s.Insert(ctx, "product", fields, "RETURNING id")
}

// Update applies the fields present in an update payload to the product
// row. Targeting a missing id yields database.ErrKeyNotFound.
func (r *ProductRepository) Update(ctx context.Context, id int64, p *models.ProductUpdatePayload) error {
	fields := database.Fields{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Barcode != nil {
		fields["barcode"] = *p.Barcode
	}
	if p.UnitPrice != nil {
		fields["unitprice"] = *p.UnitPrice
	}
	if len(fields) == 0 {
		// id-only POST: nothing to set, but the existence probe still runs
		// so a missing product is reported as not found.
		n, err := r.s.CountAll(ctx, "product", database.Fields{"id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("update product: %w", database.ErrKeyNotFound)
		}
		return nil
	}
	return r.s.Update(ctx, "product", database.Fields{"id": id}, fields)
}

// SoftDelete deactivates a product. The row is retained; the probe counts
// by id only, never by the active flag.
func (r *ProductRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.s.Update(ctx, "product", database.Fields{"id": id}, database.Fields{"active": false})
}

// List returns one page of active products as id/name rows ordered by an
// allow-listed column.
func (r *ProductRepository) List(ctx context.Context, order string, page, pageRows int) ([]models.ListRow, error) {
	query := fmt.Sprintf(
		"SELECT id, name FROM product WHERE active = TRUE ORDER BY %s LIMIT %d OFFSET %d",
		OrderColumn(order), pageRows, (page-1)*pageRows,
	)
	rows := []models.ListRow{}
	if err := r.s.Select(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return rows, nil
}

// Detail returns the product joined with its active manufacturer link, or
// an empty slice when the product is missing, inactive in the link, or has
// no active link.
func (r *ProductRepository) Detail(ctx context.Context, id int64) ([]models.ProductDetailRow, error) {
	const query = `SELECT product.id, product.name AS product_name, product.description,
		product.barcode, product.unitprice, product.active,
		manufacturer.id AS manufacturer_id, manufacturer.name AS manufacturer_name
		FROM product
		INNER JOIN productmanufacturer
			ON productmanufacturer.product_id = product.id
			AND productmanufacturer.active = TRUE
		INNER JOIN manufacturer
			ON manufacturer.id = productmanufacturer.manufacturer_id
		WHERE product.id = $1`

	rows := []models.ProductDetailRow{}
	if err := r.s.Select(ctx, &rows, query, id); err != nil {
		return nil, fmt.Errorf("product detail: %w", err)
	}
	return rows, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
