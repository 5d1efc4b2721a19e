package service

import (
	"context"
	"net/http"
	"strconv"

	"github.com/catalabs/catalog_api/internal/models"
	"github.com/catalabs/catalog_api/internal/repository"
	"github.com/catalabs/catalog_api/internal/validation"
)

// ProductCommands orchestrates the product catalog commands. Each mutating
// command runs on one transaction: every statement that succeeds before a
// failure is rolled back, and the commit only happens once the whole
// command has gone through.
type ProductCommands struct {
	stores   StoreFactory
	pageRows int
}

// NewProductCommands creates the product orchestrator.
func NewProductCommands(stores StoreFactory, pageRows int) *ProductCommands {
	return &ProductCommands{stores: stores, pageRows: pageRows}
}

// Execute dispatches a request envelope by verb. Structural checks happen
// before any database work: mutating verbs need a body, GET needs query
// parameters.
func (s *ProductCommands) Execute(ctx context.Context, req Request) Response {
	switch req.Method {
	case http.MethodPut:
		if len(req.Body) == 0 {
			return errorResponse(http.StatusBadRequest, "request body is empty")
		}
		return s.Put(ctx, req.Body)
	case http.MethodPost:
		if len(req.Body) == 0 {
			return errorResponse(http.StatusBadRequest, "request body is empty")
		}
		return s.Post(ctx, req.Body)
	case http.MethodDelete:
		if len(req.Body) == 0 {
			return errorResponse(http.StatusBadRequest, "request body is empty")
		}
		return s.Delete(ctx, req.Body)
	case http.MethodGet:
		if len(req.Query) == 0 {
			return errorResponse(http.StatusBadRequest, "request has no query parameters")
		}
		return s.Get(ctx, req.Query)
	default:
		return errorResponse(http.StatusBadRequest, "unsupported request method")
	}
}

// Put creates a product together with its manufacturer link.
func (s *ProductCommands) Put(ctx context.Context, body []byte) Response {
	store := s.stores()
	if err := store.Begin(ctx); err != nil {
		return errorResponse(http.StatusBadRequest, err.Error())
	}
	status, resBody := s.create(ctx, store, body)
	return finish(store, status, resBody)
}

func (s *ProductCommands) create(ctx context.Context, store repository.Store, body []byte) (int, any) {
	var payload models.ProductCreatePayload
	if err := validation.DecodeAndValidate(body, &payload); err != nil {
		return http.StatusBadRequest, message(err)
	}

	products := repository.NewProductRepository(store)
	manufacturers := repository.NewManufacturerRepository(store)
	links := repository.NewLinkRepository(store)

	productID, err := products.Insert(ctx, &payload)
	if err != nil {
		return statusFor(err), message(err)
	}

	res, err := resolveManufacturer(ctx, manufacturers, payload.Manufacturer)
	if err != nil {
		return statusFor(err), message(err)
	}
	switch {
	case res.insertManufacturer:
		res.ID, err = manufacturers.Insert(ctx, res.Name)
	case res.updateManufacturer:
		err = manufacturers.Update(ctx, res.ID, res.Name)
	}
	if err != nil {
		return statusFor(err), message(err)
	}

	if err := links.Replace(ctx, productID, res.ID); err != nil {
		return statusFor(err), message(err)
	}

	echo := models.ProductEcho{
		ID:           productID,
		Name:         &payload.Name,
		Description:  payload.Description,
		Barcode:      payload.Barcode,
		Manufacturer: &models.ManufacturerInfo{ID: res.ID, Name: res.Name},
		UnitPrice:    payload.UnitPrice,
	}
	return http.StatusOK, echo
}

// Post updates a product and, when a manufacturer sub-object is present,
// re-resolves its manufacturer link.
func (s *ProductCommands) Post(ctx context.Context, body []byte) Response {
	store := s.stores()
	if err := store.Begin(ctx); err != nil {
		return errorResponse(http.StatusBadRequest, err.Error())
	}
	status, resBody := s.update(ctx, store, body)
	return finish(store, status, resBody)
}

func (s *ProductCommands) update(ctx context.Context, store repository.Store, body []byte) (int, any) {
	var payload models.ProductUpdatePayload
	if err := validation.DecodeAndValidate(body, &payload); err != nil {
		return http.StatusBadRequest, message(err)
	}
	productID := *payload.ID

	products := repository.NewProductRepository(store)
	if err := products.Update(ctx, productID, &payload); err != nil {
		return statusFor(err), message(err)
	}

	echo := models.ProductEcho{
		ID:          productID,
		Name:        payload.Name,
		Description: payload.Description,
		Barcode:     payload.Barcode,
		UnitPrice:   payload.UnitPrice,
	}
	if payload.Manufacturer == nil {
		return http.StatusOK, echo
	}

	manufacturers := repository.NewManufacturerRepository(store)
	links := repository.NewLinkRepository(store)

	res, err := resolveManufacturerSwitch(ctx, manufacturers, links, payload.Manufacturer, productID)
	if err != nil {
		return statusFor(err), message(err)
	}
	switch {
	case res.insertManufacturer:
		res.ID, err = manufacturers.Insert(ctx, res.Name)
		if err == nil {
			err = links.Replace(ctx, productID, res.ID)
		}
	case res.updateManufacturer:
		err = manufacturers.Update(ctx, res.ID, res.Name)
	}
	if err != nil {
		return statusFor(err), message(err)
	}
	if res.switchLink {
		if err := links.Switch(ctx, productID, res.ID); err != nil {
			return statusFor(err), message(err)
		}
	}

	echo.Manufacturer = &models.ManufacturerInfo{ID: res.ID, Name: res.Name}
	return http.StatusOK, echo
}

// Delete deactivates a product and its active manufacturer link. The rows
// stay in place.
func (s *ProductCommands) Delete(ctx context.Context, body []byte) Response {
	store := s.stores()
	if err := store.Begin(ctx); err != nil {
		return errorResponse(http.StatusBadRequest, err.Error())
	}
	status, resBody := s.deactivate(ctx, store, body)
	return finish(store, status, resBody)
}

func (s *ProductCommands) deactivate(ctx context.Context, store repository.Store, body []byte) (int, any) {
	var payload models.ProductDeletePayload
	if err := validation.DecodeAndValidate(body, &payload); err != nil {
		return http.StatusBadRequest, message(err)
	}
	productID := *payload.ID

	products := repository.NewProductRepository(store)
	links := repository.NewLinkRepository(store)

	if err := products.SoftDelete(ctx, productID); err != nil {
		return statusFor(err), message(err)
	}
	if err := links.Deactivate(ctx, productID); err != nil {
		return statusFor(err), message(err)
	}

	return http.StatusOK, struct {
		ID int64 `json:"id"`
	}{ID: productID}
}

// Get serves listings and per-product detail. No transaction is opened:
// reads run in autocommit.
func (s *ProductCommands) Get(ctx context.Context, query map[string]string) Response {
	q := models.ListQuery{
		ID:    query["id"],
		Page:  query["page"],
		Order: query["order"],
	}
	if err := validation.Struct(&q); err != nil {
		return errorResponse(http.StatusBadRequest, err.Error())
	}
	id, page, order := normalizeListQuery(q)

	products := repository.NewProductRepository(s.stores())

	var rows any
	if id == 0 {
		listing, err := products.List(ctx, order, page, s.pageRows)
		if err != nil {
			return errorResponse(statusFor(err), err.Error())
		}
		rows = listing
	} else {
		detailRows, err := products.Detail(ctx, id)
		if err != nil {
			return errorResponse(statusFor(err), err.Error())
		}
		details := make([]models.ProductDetail, 0, len(detailRows))
		for _, row := range detailRows {
			details = append(details, row.Detail())
		}
		rows = details
	}

	return newResponse(http.StatusOK, models.ListResponse{
		ID:             id,
		Page:           page,
		Order:          order,
		MaxRowsPerPage: s.pageRows,
		Rows:           rows,
	})
}

// normalizeListQuery converts the validated string query to its effective
// values: id zero means "list", pages start at one, the default order is
// by id.
func normalizeListQuery(q models.ListQuery) (id int64, page int, order string) {
	id, _ = strconv.ParseInt(q.ID, 10, 64)
	page, _ = strconv.Atoi(q.Page)
	if page < 1 {
		page = 1
	}
	order = q.Order
	if order == "" {
		order = "id"
	}
	return id, page, order
}
