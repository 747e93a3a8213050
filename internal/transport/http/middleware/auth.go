package middleware

import (
	"net/http"
	"strings"

	"github.com/ErlanBelekov/trade-tally/internal/domain"
	"github.com/ErlanBelekov/trade-tally/internal/identity"
	"github.com/ErlanBelekov/trade-tally/internal/metrics"
	"github.com/ErlanBelekov/trade-tally/internal/token"
	"github.com/gin-gonic/gin"
)

// Keys set on the gin context for authenticated requests.
const (
	KeyUserID   = "userID"
	KeyIdentity = "identity"
	KeyClaims   = "claims"
)

const (
	errNoAuthHeader  = "No 'Authorization' header found"
	errNoBearerToken = "No 'Bearer' token found"
	errInvalidJWT    = "Invalid JWT"
)

type TokenVerifier interface {
	Verify(raw string) (*token.Claims, error)
}

// Auth requires "Authorization: Bearer <jwt>". On success the caller's
// identity is available from the gin context and from the request context.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			reject(c, "missing_header", errNoAuthHeader)
			return
		}

		scheme, credential, _ := strings.Cut(header, " ")
		credential = strings.TrimSpace(credential)
		if scheme != "Bearer" || credential == "" {
			reject(c, "missing_bearer", errNoBearerToken)
			return
		}

		claims, err := tokens.Verify(credential)
		if err != nil {
			reject(c, "invalid_jwt", errInvalidJWT)
			return
		}

		c.Set(KeyUserID, claims.User.ID)
		c.Set(KeyIdentity, claims.User)
		c.Set(KeyClaims, claims)
		c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), claims.User))
		c.Next()
	}
}

func reject(c *gin.Context, reason, message string) {
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":     http.StatusUnauthorized,
		"reason":   "AuthenticationError",
		"message":  message,
		"location": "authorization",
	})
}

// Claims returns the verified token claims set by Auth.
func Claims(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

// Identity returns the caller set by Auth.
func Identity(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(KeyIdentity)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
