package handler

import (
	"errors"
	"net/http"

	"korus/internal/auth"
	"korus/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required"`
	Message       string `json:"message" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
	WalletSource  string `json:"wallet_source"`
}

// Login verifies a wallet-signed message and returns a JWT. First login
// creates the account.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wallet_address, message and signature are required"})
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.WalletAddress, req.Message, req.Signature, req.WalletSource)
	switch {
	case errors.Is(err, auth.ErrBadSignature):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "signature verification failed"})
		return
	case errors.Is(err, service.ErrSuspended):
		c.JSON(http.StatusForbidden, gin.H{"error": "account suspended"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
