package models

// Manufacturer represents a row of the manufacturer table. Listing and
// detail queries scan directly into it.
type Manufacturer struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ManufacturerRef is the manufacturer sub-object of a product payload.
// Which of the two fields are present decides whether the manufacturer is
// reused (id only), created (name only), or updated (both).
type ManufacturerRef struct {
	ID   *int64  `json:"id,omitempty" validate:"omitempty,gte=1"`
	Name *string `json:"name,omitempty" validate:"omitempty,min=10,max=60"`
}

// ManufacturerInfo is the resolved manufacturer identity echoed in
// responses.
type ManufacturerInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
