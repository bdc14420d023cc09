package bootstrap_test

import (
	"context"
	"testing"

	"go-farmops/internal/bootstrap"
	"go-farmops/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAuditLogger_Log(t *testing.T) {
	t.Run("tags entry with request farm and actor", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		audit := bootstrap.NewZapAuditLogger(zap.New(core))

		ctx := contextutil.WithRequestID(context.Background(), "req-1")
		ctx = contextutil.WithFarmID(ctx, "farm-7")
		ctx = contextutil.WithUserID(ctx, "user-3")

		audit.Log(ctx, bootstrap.AuditLog{
			Action:  "POST /api/v1/attendance/close-month",
			Message: "farm mutation",
			Meta:    map[string]any{"status": 200},
		})

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "audit", entry.LoggerName)
		assert.Equal(t, "farm mutation", entry.Message)

		fields := entry.ContextMap()
		assert.Equal(t, "POST /api/v1/attendance/close-month", fields["action"])
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "farm-7", fields["farm_id"])
		assert.Equal(t, "user-3", fields["actor_id"])
		assert.Contains(t, fields, "meta")
	})

	t.Run("server events carry no tenant fields", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		audit := bootstrap.NewZapAuditLogger(zap.New(core))

		audit.Log(context.Background(), bootstrap.AuditLog{Action: "SERVER_SHUTDOWN", Message: "server is shutting down"})

		require.Equal(t, 1, logs.Len())
		fields := logs.All()[0].ContextMap()
		assert.NotContains(t, fields, "farm_id")
		assert.NotContains(t, fields, "actor_id")
		assert.NotContains(t, fields, "meta")
	})
}
