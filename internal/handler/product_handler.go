package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/catalabs/catalog_api/internal/service"
)

// Executor runs a command envelope. Both catalog services satisfy it.
type Executor interface {
	Execute(ctx context.Context, req service.Request) service.Response
}

// ProductHandler bridges the gin layer to the product command service.
type ProductHandler struct {
	commands Executor
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(commands Executor) *ProductHandler {
	return &ProductHandler{commands: commands}
}

// Handle serves every verb of /v1/products through one envelope: GET
// carries query parameters, everything else a JSON body.
func (h *ProductHandler) Handle(c *gin.Context) {
	req := service.Request{Method: c.Request.Method}

	if c.Request.Method == http.MethodGet {
		req.Query = queryMap(c)
	} else {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "failed to read request body"})
			return
		}
		req.Body = body
	}

	write(c, h.commands.Execute(c.Request.Context(), req))
}

// queryMap flattens the request query to single values, the shape the
// services consume.
func queryMap(c *gin.Context) map[string]string {
	q := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			q[key] = values[0]
		}
	}
	return q
}

// write sends a service response verbatim. The body is already encoded.
func write(c *gin.Context, res service.Response) {
	c.Data(res.StatusCode, res.Headers["Content-Type"], []byte(res.Body))
}
