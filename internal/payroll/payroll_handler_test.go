package payroll_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-farmops/internal/payroll"
	payrollerrors "go-farmops/internal/payroll/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func mustDecodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakePayrollService struct {
	payroll.SnapshotManager
	addAdjustmentFn func(ctx context.Context, farmID, actorID, employeeID string, req payroll.AdjustmentRequest) (payroll.AdjustmentResponse, error)
	getLogsFn       func(ctx context.Context, farmID, employeeID string, q payroll.PeriodQuery) ([]payroll.LogResponse, error)
	getSnapshotFn   func(ctx context.Context, farmID, employeeID string, q payroll.PeriodQuery) (payroll.SnapshotResponse, error)
	exportFn        func(ctx context.Context, farmID string, q payroll.PeriodQuery) ([]byte, error)
}

func (f *fakePayrollService) AddAdjustment(ctx context.Context, farmID, actorID, employeeID string, req payroll.AdjustmentRequest) (payroll.AdjustmentResponse, error) {
	return f.addAdjustmentFn(ctx, farmID, actorID, employeeID, req)
}

func (f *fakePayrollService) GetLogs(ctx context.Context, farmID, employeeID string, q payroll.PeriodQuery) ([]payroll.LogResponse, error) {
	return f.getLogsFn(ctx, farmID, employeeID, q)
}

func (f *fakePayrollService) GetSnapshot(ctx context.Context, farmID, employeeID string, q payroll.PeriodQuery) (payroll.SnapshotResponse, error) {
	return f.getSnapshotFn(ctx, farmID, employeeID, q)
}

func (f *fakePayrollService) Refresh(ctx context.Context, farmID, employeeID string, q payroll.PeriodQuery) (payroll.SnapshotResponse, error) {
	return payroll.SnapshotResponse{}, nil
}

func (f *fakePayrollService) ExportMonth(ctx context.Context, farmID string, q payroll.PeriodQuery) ([]byte, error) {
	return f.exportFn(ctx, farmID, q)
}

func (f *fakePayrollService) Payslip(ctx context.Context, farmID, employeeID string, q payroll.PeriodQuery) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

func newPayrollRouter(h *payroll.Handler, farmID, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("farm_id", farmID)
		c.Set("user_id", userID)
		c.Next()
	})
	r.POST("/attendance/users/:id/payroll-adjustments", h.AddAdjustment)
	r.GET("/attendance/users/:id/payroll-logs", h.GetLogs)
	r.GET("/attendance/users/:id/payroll", h.GetSnapshot)
	r.GET("/attendance/payroll/export", h.ExportMonth)
	return r
}

func TestPayrollHandler_AddAdjustment(t *testing.T) {
	farmID := uuid.New().String()
	userID := uuid.New().String()
	employeeID := uuid.New().String()
	body := `{"month":6,"year":2025,"action_type":"BONUS","direction":"INCREASE","amount":1000,"reason":"extra shift"}`

	t.Run("created", func(t *testing.T) {
		svc := &fakePayrollService{
			addAdjustmentFn: func(ctx context.Context, fid, aid, eid string, req payroll.AdjustmentRequest) (payroll.AdjustmentResponse, error) {
				assert.Equal(t, farmID, fid)
				assert.Equal(t, userID, aid)
				assert.Equal(t, employeeID, eid)
				assert.Equal(t, payroll.ActionBonus, req.ActionType)
				return payroll.AdjustmentResponse{Log: payroll.LogResponse{Delta: 1000}}, nil
			},
		}
		r := newPayrollRouter(payroll.NewHandler(svc), farmID, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance/users/"+employeeID+"/payroll-adjustments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, mustDecodeEnvelope(t, w.Body.Bytes()).Ok)
	})

	t.Run("closed period", func(t *testing.T) {
		svc := &fakePayrollService{
			addAdjustmentFn: func(ctx context.Context, fid, aid, eid string, req payroll.AdjustmentRequest) (payroll.AdjustmentResponse, error) {
				return payroll.AdjustmentResponse{}, payrollerrors.ErrPeriodClosed
			},
		}
		r := newPayrollRouter(payroll.NewHandler(svc), farmID, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance/users/"+employeeID+"/payroll-adjustments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := mustDecodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		if assert.NotNil(t, env.Error) {
			assert.Equal(t, "INVALID_STATE", env.Error.Code)
		}
	})

	t.Run("unknown action type", func(t *testing.T) {
		r := newPayrollRouter(payroll.NewHandler(&fakePayrollService{}), farmID, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance/users/"+employeeID+"/payroll-adjustments",
			strings.NewReader(`{"month":6,"year":2025,"action_type":"TIP","direction":"INCREASE","amount":1,"reason":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPayrollHandler_GetLogs(t *testing.T) {
	farmID := uuid.New().String()
	employeeID := uuid.New().String()

	svc := &fakePayrollService{
		getLogsFn: func(ctx context.Context, fid, eid string, q payroll.PeriodQuery) ([]payroll.LogResponse, error) {
			assert.Equal(t, 6, q.Month)
			assert.Equal(t, 2025, q.Year)
			return []payroll.LogResponse{{ActionType: payroll.ActionBonus}, {ActionType: payroll.ActionDeduction}}, nil
		},
	}
	r := newPayrollRouter(payroll.NewHandler(svc), farmID, uuid.New().String())

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance/users/"+employeeID+"/payroll-logs?month=6&year=2025", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var logs []payroll.LogResponse
		assert.NoError(t, json.Unmarshal(mustDecodeEnvelope(t, w.Body.Bytes()).Data, &logs))
		assert.Len(t, logs, 2)
	})

	t.Run("missing period", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance/users/"+employeeID+"/payroll-logs", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPayrollHandler_GetSnapshot_NotFound(t *testing.T) {
	svc := &fakePayrollService{
		getSnapshotFn: func(ctx context.Context, fid, eid string, q payroll.PeriodQuery) (payroll.SnapshotResponse, error) {
			return payroll.SnapshotResponse{}, payrollerrors.ErrSnapshotNotFound
		},
	}
	r := newPayrollRouter(payroll.NewHandler(svc), uuid.New().String(), uuid.New().String())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance/users/"+uuid.New().String()+"/payroll?month=6&year=2025", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPayrollHandler_ExportMonth(t *testing.T) {
	svc := &fakePayrollService{
		exportFn: func(ctx context.Context, fid string, q payroll.PeriodQuery) ([]byte, error) {
			return []byte("xlsx"), nil
		},
	}
	r := newPayrollRouter(payroll.NewHandler(svc), uuid.New().String(), uuid.New().String())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attendance/payroll/export?month=6&year=2025", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "payroll-2025-06.xlsx")
}
