package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/catalabs/catalog_api/internal/database"
	"github.com/catalabs/catalog_api/internal/repository"
)

// Request is the transport-agnostic command envelope: the HTTP verb plus
// either a raw body (PUT/POST/DELETE) or query parameters (GET).
type Request struct {
	Method string
	Body   []byte
	Query  map[string]string
}

// Response is the command outcome: a status code and the JSON-encoded
// body the handler writes verbatim.
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// StoreFactory mints one database session per command. Every statement of
// a command runs on the same session, and therefore on the same
// transaction once one is open.
type StoreFactory func() repository.Store

// errBody is the failure body shape.
type errBody struct {
	Message string `json:"message"`
}

func message(err error) errBody {
	return errBody{Message: err.Error()}
}

// newResponse marshals body into the response envelope.
func newResponse(status int, body any) Response {
	encoded, err := json.Marshal(body)
	if err != nil {
		status = http.StatusBadRequest
		encoded, _ = json.Marshal(errBody{Message: "response encoding failed"})
	}
	return Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(encoded),
	}
}

func errorResponse(status int, msg string) Response {
	return newResponse(status, errBody{Message: msg})
}

// statusFor maps a persistence error to its HTTP status: targeting a
// missing primary key is 404, everything else 400.
func statusFor(err error) int {
	if errors.Is(err, database.ErrKeyNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

// finish runs the commit/rollback gate and seals the response. The gate
// only fires while a transaction is open: it commits iff the command is
// still succeeding (a commit failure downgrades it), and anything not
// successful at that point rolls back. After a successful commit nothing
// can fail the command anymore.
func finish(store repository.Store, status int, body any) Response {
	if store.InTransaction() {
		if status == http.StatusOK {
			if err := store.Commit(); err != nil {
				status = http.StatusBadRequest
				body = message(err)
			}
		}
		if status != http.StatusOK {
			_ = store.Rollback()
		}
	}
	return newResponse(status, body)
}
