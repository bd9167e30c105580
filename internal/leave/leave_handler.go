package leave

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/mdvohra/LMS-app/internal/shared/apperror"
	"github.com/mdvohra/LMS-app/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// ApplicationForm returns the submission form metadata: the caller's identity
// and the accepted leave types.
func (h *Handler) ApplicationForm(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"user":        c.GetString("username"),
		"leave_types": []string{TypeCasual, TypeSick, TypeEmergency},
	}, nil)
}

func (h *Handler) Apply(c *gin.Context) {
	actorID := c.GetString("user_id")

	var req ApplyLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// All field-level violations together with the submitted values, so
		// the client can re-render the form without losing input.
		h.logger.Warn("apply leave binding failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Leave application input is invalid",
			gin.H{
				"violations":  apperror.MapValidationErrors(err),
				"form_values": req,
			})
		return
	}

	resp, err := h.service.Apply(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ViewAppliedLeaves(c *gin.Context) {
	resp, err := h.service.ListByUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ManagerDashboard(c *gin.Context) {
	resp, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, h.service.Reject)
}

type decideFn func(ctx context.Context, actorID, id, remarks string) (LeaveApplicationResponse, error)

func (h *Handler) decide(c *gin.Context, fn decideFn) {
	id := c.Param("id")
	actorID := c.GetString("user_id")

	// Remarks are optional; an empty body means a decision without remarks.
	var req DecideLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("decide leave binding failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Decision input is invalid",
			gin.H{"violations": apperror.MapValidationErrors(err)})
		return
	}

	resp, err := fn(c.Request.Context(), actorID, id, req.Remarks)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
