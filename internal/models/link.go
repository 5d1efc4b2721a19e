package models

// ListRow is one row of a paginated product id/name listing.
type ListRow struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ListQuery is the validated query of a GET request. All values arrive as
// strings; id and page must be digit-only, order is restricted to the
// sortable column allow-list.
type ListQuery struct {
	ID    string `json:"id" validate:"omitempty,number"`
	Page  string `json:"page" validate:"omitempty,number"`
	Order string `json:"order" validate:"omitempty,oneof=id name"`
}

// ListResponse is the success body of a GET: the normalized query echoed
// back with the page-size ceiling and the fetched rows.
type ListResponse struct {
	ID             int64  `json:"id"`
	Page           int    `json:"page"`
	Order          string `json:"order"`
	MaxRowsPerPage int    `json:"maxRowsPerPage"`
	Rows           any    `json:"rows"`
}
