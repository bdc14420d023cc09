package apperror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-farmops/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
)

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps its status and code", func(t *testing.T) {
		err := apperror.New(apperror.CodeConflict, "period already closed", http.StatusConflict)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusConflict, got.Status)
		assert.Equal(t, apperror.CodeConflict, got.Code)
		assert.Equal(t, "period already closed", got.Message)
	})

	t.Run("wrapped app error is unwrapped", func(t *testing.T) {
		base := apperror.New(apperror.CodeNotFound, "leave request not found", http.StatusNotFound)
		err := fmt.Errorf("load: %w", base)

		got := apperror.ToHTTP(err)

		assert.Equal(t, http.StatusNotFound, got.Status)
		assert.Equal(t, apperror.CodeNotFound, got.Code)
	})

	t.Run("unknown error becomes internal", func(t *testing.T) {
		got := apperror.ToHTTP(errors.New("pq: connection reset"))

		assert.Equal(t, http.StatusInternalServerError, got.Status)
		assert.Equal(t, apperror.CodeInternalError, got.Code)
		assert.NotContains(t, got.Message, "pq")
	})
}

func TestAppError_Is(t *testing.T) {
	sentinel := apperror.New(apperror.CodeConflict, "already decided", http.StatusConflict)
	withCause := sentinel.WithCause(errors.New("rows affected 0"))

	assert.True(t, errors.Is(withCause, sentinel))
	assert.Contains(t, withCause.Error(), "rows affected 0")
	assert.False(t, errors.Is(withCause, apperror.ErrNotFound))
}
