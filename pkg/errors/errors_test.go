package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := NotFound("product", "video-editing-guide")
	assert.Contains(t, err.Error(), "NOT_FOUND")
	assert.Contains(t, err.Error(), "video-editing-guide")
}

func TestAppError_Unwrap(t *testing.T) {
	err := InvalidInput("score must be between 1 and 5")
	assert.ErrorIs(t, err, ErrInvalidInput)

	wrapped := fmt.Errorf("submit rating: %w", err)
	assert.ErrorIs(t, wrapped, ErrInvalidInput)
}

func TestHTTPStatus_AppError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("product", "x")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInput("bad")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(AlreadyExists("subscriber", "email", "a@b.com")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(SyncBusy()))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(Internal(errors.New("boom"))))
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("get product: %w", ErrNotFound)))
	assert.Equal(t, http.StatusConflict, HTTPStatus(fmt.Errorf("trigger sync: %w", ErrSyncRunning)))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrServiceUnavail))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("unknown")))
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrNotFound, "lookup rating")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "lookup rating")
}
