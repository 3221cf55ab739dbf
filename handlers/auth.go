package handlers

import (
	"net/http"

	"concierge/services/concierge"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Service *concierge.Service
}

// LoginHandler exchanges email and password for a bearer token.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	logger := getLogger(c)

	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, user, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Info("Login failed", zap.String("email", req.Email), zap.Error(err))
		respondError(c, err, "log in")
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// MeHandler returns the authenticated user.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}
