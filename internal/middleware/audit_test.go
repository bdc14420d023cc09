package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-farmops/internal/bootstrap"
	"go-farmops/internal/middleware"
	"go-farmops/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditLogger struct {
	entries []bootstrap.AuditLog
	farmIDs []string
}

func (f *fakeAuditLogger) Log(ctx context.Context, entry bootstrap.AuditLog) {
	f.entries = append(f.entries, entry)
	f.farmIDs = append(f.farmIDs, contextutil.GetFarmID(ctx))
}

func TestAuditTrail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(audit *fakeAuditLogger) *gin.Engine {
		router := gin.New()
		router.Use(middleware.AuditTrail(audit))
		withFarm := func(c *gin.Context) {
			c.Request = c.Request.WithContext(contextutil.WithFarmID(c.Request.Context(), "farm-1"))
			c.Next()
		}
		router.POST("/attendance/users/:id/close", withFarm, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		router.POST("/attendance/users/:id/reopen", withFarm, func(c *gin.Context) {
			c.Status(http.StatusUnprocessableEntity)
		})
		router.GET("/attendance/periods", withFarm, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("successful mutation recorded with farm and target", func(t *testing.T) {
		audit := &fakeAuditLogger{}
		router := newRouter(audit)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/attendance/users/emp-42/close", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		require.Len(t, audit.entries, 1)
		assert.Equal(t, "POST /attendance/users/:id/close", audit.entries[0].Action)
		assert.Equal(t, "emp-42", audit.entries[0].Meta["target_id"])
		assert.Equal(t, http.StatusOK, audit.entries[0].Meta["status"])
		assert.Equal(t, "farm-1", audit.farmIDs[0])
	})

	t.Run("failed mutation skipped", func(t *testing.T) {
		audit := &fakeAuditLogger{}
		router := newRouter(audit)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/attendance/users/emp-42/reopen", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Empty(t, audit.entries)
	})

	t.Run("reads skipped", func(t *testing.T) {
		audit := &fakeAuditLogger{}
		router := newRouter(audit)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance/periods", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, audit.entries)
	})
}
