package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalabs/catalog_api/internal/database"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(database.ErrKeyNotFound))
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("update product: %w", database.ErrKeyNotFound)))
	assert.Equal(t, http.StatusBadRequest, statusFor(errors.New("anything else")))
}

// TestFinish_CommitFailureDowngrades verifies a failing commit turns a
// success into a client-visible failure.
func TestFinish_CommitFailureDowngrades(t *testing.T) {
	store := &fakeStore{db: newFakeDB(), commitErr: errors.New("commit transaction: connection reset")}
	require.NoError(t, store.Begin(context.Background()))

	res := finish(store, http.StatusOK, errBody{Message: "ignored"})

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, res.Body, "connection reset")
	assert.False(t, store.committed)
}

// TestFinish_NoTransactionLeavesResponseAlone verifies the gate is a pure
// passthrough for read-only commands.
func TestFinish_NoTransactionLeavesResponseAlone(t *testing.T) {
	store := &fakeStore{db: newFakeDB()}

	res := finish(store, http.StatusOK, errBody{Message: "fine"})

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.False(t, store.committed)
	assert.False(t, store.rolledBack)
}
