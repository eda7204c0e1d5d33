package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const clientIDKey = "clientId"

// Claims identifies the calling client of the payment API.
type Claims struct {
	ClientID string `json:"clientId"`
	jwt.RegisteredClaims
}

// AuthMiddleware accepts HMAC-signed bearer tokens carrying Claims.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header required",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid authorization header format",
			})
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid || claims.ClientID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid or expired token",
			})
			return
		}

		c.Set(clientIDKey, claims.ClientID)
		c.Next()
	}
}

// SetClientID stores the caller identity on the request context.
func SetClientID(c *gin.Context, clientID string) {
	c.Set(clientIDKey, clientID)
}

func GetClientID(c *gin.Context) (string, bool) {
	clientID, exists := c.Get(clientIDKey)
	if !exists {
		return "", false
	}
	id, ok := clientID.(string)
	return id, ok
}
