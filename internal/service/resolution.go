package service

import (
	"context"
	"fmt"

	"github.com/catalabs/catalog_api/internal/models"
	"github.com/catalabs/catalog_api/internal/repository"
)

// resolution is the outcome of inspecting a manufacturer sub-object: the
// bound identity plus which side effects the command must perform before
// linking.
type resolution struct {
	ID   int64
	Name string

	insertManufacturer bool
	updateManufacturer bool
	switchLink         bool
}

// resolveManufacturer decides what the manufacturer sub-object means from
// which of its fields are present: id alone reuses a registered
// manufacturer, name alone creates one, both together rename one. A
// sub-object carrying neither is a validation failure.
func resolveManufacturer(ctx context.Context, manufacturers *repository.ManufacturerRepository, ref *models.ManufacturerRef) (*resolution, error) {
	switch {
	case ref == nil || (ref.ID == nil && ref.Name == nil):
		return nil, fmt.Errorf("manufacturer must carry an id, a name, or both")

	case ref.ID != nil && ref.Name == nil:
		name, found, err := manufacturers.NameByID(ctx, *ref.ID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("manufacturer not registered (id=%d)", *ref.ID)
		}
		return &resolution{ID: *ref.ID, Name: name}, nil

	case ref.ID == nil:
		return &resolution{Name: *ref.Name, insertManufacturer: true}, nil

	default:
		return &resolution{ID: *ref.ID, Name: *ref.Name, updateManufacturer: true}, nil
	}
}

// resolveManufacturerSwitch extends resolveManufacturer for updates of an
// existing product: when the sub-object names a registered manufacturer,
// it is compared against the product's active link to decide whether the
// link must move. A product without an active link cannot be re-linked.
func resolveManufacturerSwitch(ctx context.Context, manufacturers *repository.ManufacturerRepository, links *repository.LinkRepository, ref *models.ManufacturerRef, productID int64) (*resolution, error) {
	res, err := resolveManufacturer(ctx, manufacturers, ref)
	if err != nil {
		return nil, err
	}
	if res.insertManufacturer {
		return res, nil
	}
	current, found, err := links.ActiveManufacturerID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("product has no active manufacturer link (product_id=%d)", productID)
	}
	if current != res.ID {
		res.switchLink = true
	}
	return res, nil
}
