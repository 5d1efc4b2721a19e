package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/catalabs/catalog_api/internal/database"
	"github.com/catalabs/catalog_api/internal/models"
)

// ManufacturerRepository provides persistence operations for the
// manufacturer table.
type ManufacturerRepository struct {
	s Store
}

// NewManufacturerRepository creates a ManufacturerRepository over a session.
func NewManufacturerRepository(s Store) *ManufacturerRepository {
	return &ManufacturerRepository{s: s}
}

// Insert creates a manufacturer by name and returns the generated id.
func (r *ManufacturerRepository) Insert(ctx context.Context, name string) (int64, error) {
	return r.s.Insert(ctx, "manufacturer", database.Fields{"name": name}, "RETURNING id")
}

// Update renames a manufacturer. Targeting a missing id yields
// database.ErrKeyNotFound.
func (r *ManufacturerRepository) Update(ctx context.Context, id int64, name string) error {
	return r.s.Update(ctx, "manufacturer", database.Fields{"id": id}, database.Fields{"name": name})
}

// NameByID looks up a manufacturer name. The second return value reports
// whether the id is registered.
func (r *ManufacturerRepository) NameByID(ctx context.Context, id int64) (string, bool, error) {
	var name string
	err := r.s.Get(ctx, &name, "SELECT name FROM manufacturer WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("manufacturer lookup: %w", err)
	}
	return name, true, nil
}

// List returns one page of manufacturer rows ordered by an allow-listed
// column.
func (r *ManufacturerRepository) List(ctx context.Context, order string, page, pageRows int) ([]models.Manufacturer, error) {
	query := fmt.Sprintf(
		"SELECT id, name FROM manufacturer ORDER BY %s LIMIT %d OFFSET %d",
		OrderColumn(order), pageRows, (page-1)*pageRows,
	)
	rows := []models.Manufacturer{}
	if err := r.s.Select(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list manufacturers: %w", err)
	}
	return rows, nil
}

// Detail returns the manufacturer row, or an empty slice when the id is
// not registered.
func (r *ManufacturerRepository) Detail(ctx context.Context, id int64) ([]models.Manufacturer, error) {
	rows := []models.Manufacturer{}
	if err := r.s.Select(ctx, &rows, "SELECT id, name FROM manufacturer WHERE id = $1", id); err != nil {
		return nil, fmt.Errorf("manufacturer detail: %w", err)
	}
	return rows, nil
}
