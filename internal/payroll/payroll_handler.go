package payroll

import (
	"fmt"
	"net/http"

	"go-farmops/internal/shared/apperror"
	"go-farmops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("payroll request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) bindPeriod(c *gin.Context) (PeriodQuery, bool) {
	var q PeriodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return PeriodQuery{}, false
	}
	return q, true
}

func (h *Handler) AddAdjustment(c *gin.Context) {
	var req AdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.AddAdjustment(
		c.Request.Context(),
		c.GetString("farm_id"),
		c.GetString("user_id"),
		c.Param("id"),
		req,
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetLogs(c *gin.Context) {
	q, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	resp, err := h.service.GetLogs(c.Request.Context(), c.GetString("farm_id"), c.Param("id"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetSnapshot(c *gin.Context) {
	q, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	resp, err := h.service.GetSnapshot(c.Request.Context(), c.GetString("farm_id"), c.Param("id"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Refresh(c *gin.Context) {
	var q PeriodQuery
	if err := c.ShouldBindJSON(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), c.GetString("farm_id"), c.Param("id"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Payslip(c *gin.Context) {
	q, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	pdf, err := h.service.Payslip(c.Request.Context(), c.GetString("farm_id"), c.Param("id"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("payslip-%s-%04d-%02d.pdf", c.Param("id"), q.Year, q.Month)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) ExportMonth(c *gin.Context) {
	q, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	file, err := h.service.ExportMonth(c.Request.Context(), c.GetString("farm_id"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("payroll-%04d-%02d.xlsx", q.Year, q.Month)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, file)
}
