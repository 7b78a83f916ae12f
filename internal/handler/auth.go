package handler

import (
	"net/http"
	"time"

	"github.com/BloggingApp/blog-client/internal/dto"
	"github.com/BloggingApp/blog-client/internal/session"
	"github.com/gin-gonic/gin"
)

func (h *Handler) authLogin(c *gin.Context) {
	var input dto.LoginDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	result, err := h.gateway.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.sessions.Login(c.Request.Context(), result.User, result.Access); err != nil {
		h.logger.Sugar().Errorf("failed to persist session for user(%s): %s", result.User.Username, err.Error())
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, "failed to persist session"))
		return
	}

	c.JSON(http.StatusOK, result.User)
}

func (h *Handler) authLogout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context()); err != nil {
		h.logger.Sugar().Errorf("failed to clear session: %s", err.Error())
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, "failed to clear session"))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) authPasswordReset(c *gin.Context) {
	var input dto.PasswordResetDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if err := h.gateway.RequestPasswordReset(c.Request.Context(), input.Email); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "password reset email has been sent"))
}

func (h *Handler) sessionInfo(c *gin.Context) {
	user := h.sessions.Current()
	if user == nil {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	info := gin.H{"user": user}
	if expiry, err := session.TokenExpiry(h.sessions.Token()); err == nil {
		info["expires_at"] = expiry.UTC().Format(time.RFC3339)
	}

	c.JSON(http.StatusOK, info)
}
