package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/config"
	"github.com/zbigniewzolnierowicz/recipes-api/internal/util"
)

// RequireWriteToken guards mutating routes with an HS256 bearer token. The
// token must be an access token carrying a subject, which is stored in the
// context. When no secret is configured the guard lets every request through.
func RequireWriteToken(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.EnvVars.JwtSecretKey)

	return func(c *gin.Context) {
		if len(secret) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		tokenString = strings.TrimSpace(tokenString)

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// Refresh tokens must not authorize writes
		tokenType, ok := claims["type"].(string)
		if !ok || tokenType != "access" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token type"})
			return
		}

		subject, err := claims.GetSubject()
		if err != nil || subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has no subject"})
			return
		}

		c.Set(util.SubjectKey, subject)
		c.Next()
	}
}
