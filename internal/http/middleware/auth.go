package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const vendorIDKey = "vendor_id"

// VendorAuth validates the bearer token and stores the vendor id claim on
// the context. Session storage lives elsewhere; this only authenticates.
func VendorAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}
		vendorID, ok := claims[vendorIDKey].(float64)
		if !ok || vendorID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid vendor claim"})
			return
		}

		c.Set(vendorIDKey, int64(vendorID))
		c.Next()
	}
}

// GetVendorID returns the authenticated vendor id, 0 when absent.
func GetVendorID(c *gin.Context) int64 {
	if v, ok := c.Get(vendorIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
