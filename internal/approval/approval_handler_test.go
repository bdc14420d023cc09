package approval_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-farmops/internal/approval"
	approvalerrors "go-farmops/internal/approval/errors"
	approvalmock "go-farmops/internal/approval/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *apiError       `json:"error"`
}

func newApprovalContext(target string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Params = params
	return c, w
}

func TestApprovalHandler_History(t *testing.T) {
	farmID := uuid.New().String()
	entityID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := approvalmock.NewMockService(gomock.NewController(t))
		svc.EXPECT().
			History(gomock.Any(), farmID, approval.KindChangeRequest, entityID).
			Return([]approval.LogResponse{{EntityID: entityID, Action: "APPROVE", ToStatus: approval.StatusApproved}}, nil)

		c, w := newApprovalContext("/approvals/change-request/"+entityID+"/logs",
			gin.Params{{Key: "kind", Value: "change-request"}, {Key: "id", Value: entityID}})
		c.Set("farm_id", farmID)

		approval.NewHandler(svc).History(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var env apiEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		var logs []approval.LogResponse
		require.NoError(t, json.Unmarshal(env.Data, &logs))
		require.Len(t, logs, 1)
		assert.Equal(t, approval.StatusApproved, logs[0].ToStatus)
	})

	t.Run("unknown kind never reaches the service", func(t *testing.T) {
		svc := approvalmock.NewMockService(gomock.NewController(t))

		c, w := newApprovalContext("/approvals/invoice/"+entityID+"/logs",
			gin.Params{{Key: "kind", Value: "invoice"}, {Key: "id", Value: entityID}})
		c.Set("farm_id", farmID)

		approval.NewHandler(svc).History(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var env apiEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.False(t, env.Ok)
		assert.Equal(t, approvalerrors.ErrInvalidKind.Message, env.Message)
	})

	t.Run("unknown entity", func(t *testing.T) {
		svc := approvalmock.NewMockService(gomock.NewController(t))
		svc.EXPECT().
			History(gomock.Any(), farmID, approval.KindAdvance, entityID).
			Return(nil, approvalerrors.ErrRequestNotFound)

		c, w := newApprovalContext("/approvals/advance/"+entityID+"/logs",
			gin.Params{{Key: "kind", Value: "advance"}, {Key: "id", Value: entityID}})
		c.Set("farm_id", farmID)

		approval.NewHandler(svc).History(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
