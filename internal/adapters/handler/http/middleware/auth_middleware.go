package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	authorizationHeader = "Authorization"
	authorizationType   = "Bearer"
	authenticateHeader  = "WWW-Authenticate"
	authenticateRealm   = `Bearer realm="itera"`
)

var (
	errMissingHeader = errors.New("authorization header required")
	errHeaderFormat  = errors.New("invalid authorization header format")
)

// TokenValidator resolves a bearer token to the owner id it was issued for.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}

type ownerKey struct{}

// WithOwner returns a copy of ctx carrying the authenticated owner id.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFrom reads the owner id put there by AuthMiddleware. Services that
// receive the request context can use it too.
func OwnerFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ownerKey{}).(string)
	return id, ok && id != ""
}

// Owner is OwnerFrom for the request behind c.
func Owner(c *gin.Context) (string, bool) {
	return OwnerFrom(c.Request.Context())
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], authorizationType) {
		return "", errHeaderFormat
	}
	return fields[1], nil
}

func unauthorized(c *gin.Context, msg string) {
	c.Header(authenticateHeader, authenticateRealm)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}

// AuthMiddleware authenticates the bearer token and scopes the request to its
// owner through the request context.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader(authorizationHeader))
		if err != nil {
			unauthorized(c, err.Error())
			return
		}

		ownerID, err := tokens.ValidateToken(c.Request.Context(), token)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			unauthorized(c, "token expired, log in again")
			return
		case err != nil:
			unauthorized(c, "invalid or expired token")
			return
		}

		c.Request = c.Request.WithContext(WithOwner(c.Request.Context(), ownerID))
		c.Next()
	}
}
