package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/catalabs/catalog_api/internal/database"
)

// LinkRepository manages the productmanufacturer association table. Link
// rows are never updated across a manufacturer change: the current row is
// deactivated and a fresh active row inserted, so history stays auditable.
type LinkRepository struct {
	s Store
}

// NewLinkRepository creates a LinkRepository over a session.
func NewLinkRepository(s Store) *LinkRepository {
	return &LinkRepository{s: s}
}

// ActiveManufacturerID returns the manufacturer bound by the product's
// active link. The second return value reports whether such a link exists.
func (r *LinkRepository) ActiveManufacturerID(ctx context.Context, productID int64) (int64, bool, error) {
	var id int64
	err := r.s.Get(ctx, &id,
		"SELECT manufacturer_id FROM productmanufacturer WHERE product_id = $1 AND active = TRUE", productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("active link lookup: %w", err)
	}
	return id, true, nil
}

// Replace deactivates whatever link the product currently has (a missing
// link is fine, the product may be brand new) and inserts a fresh active
// one.
func (r *LinkRepository) Replace(ctx context.Context, productID, manufacturerID int64) error {
	err := r.s.Update(ctx, "productmanufacturer",
		database.Fields{"product_id": productID},
		database.Fields{"active": false})
	if err != nil && !errors.Is(err, database.ErrKeyNotFound) {
		return err
	}
	return r.insertActive(ctx, productID, manufacturerID)
}

// Switch deactivates the product's current link and inserts a fresh active
// one. Unlike Replace, a product without any link is a not-found failure.
func (r *LinkRepository) Switch(ctx context.Context, productID, manufacturerID int64) error {
	err := r.s.Update(ctx, "productmanufacturer",
		database.Fields{"product_id": productID},
		database.Fields{"active": false})
	if err != nil {
		return err
	}
	return r.insertActive(ctx, productID, manufacturerID)
}

// Deactivate clears the product's active link. The probe includes the
// active flag, so a product whose link is already inactive is reported as
// not found.
func (r *LinkRepository) Deactivate(ctx context.Context, productID int64) error {
	return r.s.Update(ctx, "productmanufacturer",
		database.Fields{"product_id": productID, "active": true},
		database.Fields{"active": false})
}

func (r *LinkRepository) insertActive(ctx context.Context, productID, manufacturerID int64) error {
	_, err := r.s.Insert(ctx, "productmanufacturer", database.Fields{
		"product_id":      productID,
		"manufacturer_id": manufacturerID,
		"active":          true,
	}, "")
	return err
}
