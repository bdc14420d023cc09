package approval

import (
	"net/http"

	approvalerrors "go-farmops/internal/approval/errors"
	"go-farmops/internal/shared/apperror"
	"go-farmops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("approval.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("approval request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// History serves GET /approvals/:kind/:id/logs.
func (h *Handler) History(c *gin.Context) {
	kind, ok := ParseKind(c.Param("kind"))
	if !ok {
		h.writeServiceError(c, approvalerrors.ErrInvalidKind)
		return
	}

	resp, err := h.service.History(c.Request.Context(), c.GetString("farm_id"), kind, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
