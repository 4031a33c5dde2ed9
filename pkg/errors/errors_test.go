package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors_ClassifyViaErrorsIs(t *testing.T) {
	assert.ErrorIs(t, NotFound("reservation", "res-1"), ErrNotFound)
	assert.ErrorIs(t, InvalidInput("bad date"), ErrInvalidInput)
	assert.ErrorIs(t, Conflict("dates taken"), ErrConflict)
	assert.ErrorIs(t, ProductUnavailable("prod-1"), ErrConflict)
	assert.ErrorIs(t, InvalidTransition("canceled", "confirmed"), ErrInvalidTransition)
	assert.ErrorIs(t, TransitionNotAllowed("too late to cancel"), ErrInvalidTransition)
	assert.ErrorIs(t, Forbidden("not yours"), ErrForbidden)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFound("reservation", "res-1"), http.StatusNotFound},
		{InvalidInput("bad"), http.StatusBadRequest},
		{Conflict("taken"), http.StatusConflict},
		{ProductUnavailable("prod-1"), http.StatusConflict},
		{InvalidTransition("canceled", "confirmed"), http.StatusUnprocessableEntity},
		{TransitionNotAllowed("too late"), http.StatusUnprocessableEntity},
		{Forbidden("nope"), http.StatusForbidden},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", ErrConflict), http.StatusConflict},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "error: %v", tt.err)
	}
}

func TestHTTPStatus_SurvivesWrapping(t *testing.T) {
	err := Wrap(NotFound("product", "prod-1"), "look up product")
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAppError_Message(t *testing.T) {
	err := NotFound("reservation", "res-42")
	assert.Contains(t, err.Error(), "reservation with id res-42 not found")
	assert.Contains(t, err.Error(), "NOT_FOUND")

	tr := InvalidTransition("completed", "canceled")
	assert.Contains(t, tr.Message, `"completed"`)
	assert.Contains(t, tr.Message, `"canceled"`)

	pu := ProductUnavailable("prod-7")
	assert.Equal(t, "PRODUCT_UNAVAILABLE", pu.Code)
	assert.Contains(t, pu.Message, "prod-7")
}
