package models

// ProductCreatePayload is the validated body of a product PUT request.
// Pointer fields distinguish "absent" from "present but zero" so required
// checks match the declared schema rather than Go zero values.
type ProductCreatePayload struct {
	Name         string           `json:"name" validate:"required,min=10,max=60"`
	Description  *string          `json:"description" validate:"required"`
	Barcode      *string          `json:"barcode" validate:"required"`
	Manufacturer *ManufacturerRef `json:"manufacturer" validate:"required"`
	UnitPrice    *float64         `json:"unitPrice" validate:"required,gte=0.01,lte=9999999999.99"`
}

// ProductUpdatePayload is the validated body of a product POST request.
// Only the id is mandatory; absent fields keep their stored values.
type ProductUpdatePayload struct {
	ID           *int64           `json:"id" validate:"required,gte=1"`
	Name         *string          `json:"name" validate:"omitempty,min=10,max=60"`
	Description  *string          `json:"description"`
	Barcode      *string          `json:"barcode"`
	Manufacturer *ManufacturerRef `json:"manufacturer"`
	UnitPrice    *float64         `json:"unitPrice" validate:"omitempty,gte=0.01,lte=9999999999.99"`
}

// ProductDeletePayload is the validated body of a product DELETE request.
type ProductDeletePayload struct {
	ID *int64 `json:"id" validate:"required,gte=1"`
}

// ProductEcho is the success body of PUT and POST: the submitted fields
// with the resolved product id and manufacturer identity filled in.
type ProductEcho struct {
	ID           int64             `json:"id"`
	Name         *string           `json:"name,omitempty"`
	Description  *string           `json:"description,omitempty"`
	Barcode      *string           `json:"barcode,omitempty"`
	Manufacturer *ManufacturerInfo `json:"manufacturer,omitempty"`
	UnitPrice    *float64          `json:"unitPrice,omitempty"`
}

// ProductDetailRow is the scan target of the detail query joining product,
// its active manufacturer link, and the manufacturer.
type ProductDetailRow struct {
	ID               int64   `db:"id"`
	Name             string  `db:"product_name"`
	Description      string  `db:"description"`
	Barcode          string  `db:"barcode"`
	UnitPrice        float64 `db:"unitprice"`
	Active           bool    `db:"active"`
	ManufacturerID   int64   `db:"manufacturer_id"`
	ManufacturerName string  `db:"manufacturer_name"`
}

// ProductDetail is the JSON shape of a detail row. The active flag is
// rendered as "Yes"/"No".
type ProductDetail struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Barcode      string           `json:"barcode"`
	Manufacturer ManufacturerInfo `json:"manufacturer"`
	UnitPrice    float64          `json:"unitPrice"`
	Active       string           `json:"active"`
}

// Detail converts a scanned row to its response shape.
func (r ProductDetailRow) Detail() ProductDetail {
	active := "No"
	if r.Active {
		active = "Yes"
	}
	return ProductDetail{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Barcode:     r.Barcode,
		Manufacturer: ManufacturerInfo{
			ID:   r.ManufacturerID,
			Name: r.ManufacturerName,
		},
		UnitPrice: r.UnitPrice,
		Active:    active,
	}
}
