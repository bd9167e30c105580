package auth

import (
	"net/http"

	"github.com/mdvohra/LMS-app/internal/session"
	"github.com/mdvohra/LMS-app/internal/shared/apperror"
	"github.com/mdvohra/LMS-app/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const cookieMaxAge = 24 * 60 * 60

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid registration input",
			gin.H{"violations": apperror.MapValidationErrors(err)})
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid login input",
			gin.H{"violations": apperror.MapValidationErrors(err)})
		return
	}

	sess, resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	cookie, err := session.EncodeCookie(sess.ID)
	if err != nil {
		h.logger.Error("session cookie encode failed", zap.Error(err))
		h.writeServiceError(c, err)
		return
	}
	c.SetCookie(session.CookieName, cookie, cookieMaxAge, "/", "", false, true)

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	sessionID := c.GetString("session_id")
	if err := h.service.Logout(c.Request.Context(), sessionID); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.SetCookie(session.CookieName, "", -1, "/", "", false, true)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, nil)
}

func (h *Handler) GetMe(c *gin.Context) {
	resp, err := h.service.GetMe(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
