package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Unauthorized("no session"), http.StatusUnauthorized},
		{NotFound("gone"), http.StatusNotFound},
		{Conflict("dup"), http.StatusConflict},
		{Unavailable("store down", nil), http.StatusServiceUnavailable},
		{Internal("boom", nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Status(), tc.err.Message)
	}
}

func TestFromErrorPassesTaxonomyThrough(t *testing.T) {
	orig := NotFound("Gist not found")
	got := FromError(orig)
	assert.Same(t, orig, got)
}

func TestFromErrorWrapsUnknown(t *testing.T) {
	cause := errors.New("driver exploded")
	got := FromError(cause)
	require.Equal(t, KindInternal, got.Kind)
	// internal details must not reach the client-facing message
	assert.Equal(t, "Something went wrong", got.Message)
	assert.ErrorIs(t, got, cause)
}

func TestIsKind(t *testing.T) {
	err := Unavailable("store down", errors.New("dial tcp refused"))
	assert.True(t, IsKind(err, KindUnavailable))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindInternal))
}
