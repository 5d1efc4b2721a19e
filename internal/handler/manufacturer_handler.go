package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/catalabs/catalog_api/internal/service"
)

// ManufacturerHandler bridges the gin layer to the manufacturer query
// service.
type ManufacturerHandler struct {
	queries Executor
}

// NewManufacturerHandler creates a new ManufacturerHandler.
func NewManufacturerHandler(queries Executor) *ManufacturerHandler {
	return &ManufacturerHandler{queries: queries}
}

// Get serves manufacturer listings and detail.
// GET /v1/manufacturers
func (h *ManufacturerHandler) Get(c *gin.Context) {
	req := service.Request{
		Method: c.Request.Method,
		Query:  queryMap(c),
	}
	write(c, h.queries.Execute(c.Request.Context(), req))
}
