package service

import (
	"context"
	"net/http"

	"github.com/catalabs/catalog_api/internal/models"
	"github.com/catalabs/catalog_api/internal/repository"
	"github.com/catalabs/catalog_api/internal/validation"
)

// ManufacturerQueries serves the read-only manufacturer surface.
type ManufacturerQueries struct {
	stores   StoreFactory
	pageRows int
}

// NewManufacturerQueries creates the manufacturer query service.
func NewManufacturerQueries(stores StoreFactory, pageRows int) *ManufacturerQueries {
	return &ManufacturerQueries{stores: stores, pageRows: pageRows}
}

// Execute dispatches a request envelope. Only GET is served.
func (s *ManufacturerQueries) Execute(ctx context.Context, req Request) Response {
	if req.Method != http.MethodGet {
		return errorResponse(http.StatusBadRequest, "unsupported request method")
	}
	if len(req.Query) == 0 {
		return errorResponse(http.StatusBadRequest, "request has no query parameters")
	}
	return s.Get(ctx, req.Query)
}

// Get serves manufacturer listings and per-manufacturer detail.
func (s *ManufacturerQueries) Get(ctx context.Context, query map[string]string) Response {
	q := models.ListQuery{
		ID:    query["id"],
		Page:  query["page"],
		Order: query["order"],
	}
	if err := validation.Struct(&q); err != nil {
		return errorResponse(http.StatusBadRequest, err.Error())
	}
	id, page, order := normalizeListQuery(q)

	manufacturers := repository.NewManufacturerRepository(s.stores())

	var rows []models.Manufacturer
	var err error
	if id == 0 {
		rows, err = manufacturers.List(ctx, order, page, s.pageRows)
	} else {
		rows, err = manufacturers.Detail(ctx, id)
	}
	if err != nil {
		return errorResponse(statusFor(err), err.Error())
	}

	return newResponse(http.StatusOK, models.ListResponse{
		ID:             id,
		Page:           page,
		Order:          order,
		MaxRowsPerPage: s.pageRows,
		Rows:           rows,
	})
}
