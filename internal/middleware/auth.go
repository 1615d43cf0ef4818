package middleware

import (
	"net/http"
	"strings"

	"korus/config"
	"korus/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer JWT and sets the wallet and tier in
// context.
func AuthRequired(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		claims, err := auth.ParseToken(cfg, parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set("wallet", claims.WalletAddress)
		c.Set("tier", claims.Tier)
		c.Next()
	}
}

// AdminRequired allows only wallets on the operator allow-list. Must run
// after AuthRequired.
func AdminRequired(adminWallets []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(adminWallets))
	for _, w := range adminWallets {
		allowed[w] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := allowed[GetWallet(c)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "operator access required"})
			return
		}
		c.Next()
	}
}

// GetWallet returns the authenticated wallet address from context (must be
// used after AuthRequired).
func GetWallet(c *gin.Context) string {
	v, _ := c.Get("wallet")
	w, _ := v.(string)
	return w
}
