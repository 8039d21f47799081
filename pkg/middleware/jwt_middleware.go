package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"linkbio/pkg/identity"
	"linkbio/pkg/logger"
	"linkbio/pkg/utils"
)

// UserLookup loads the stored caller behind a token subject; nil means the user is gone.
type UserLookup func(ctx context.Context, userID uuid.UUID) (*identity.Identity, error)

func JWTAuthMiddleware(issuer *utils.TokenIssuer, lookup UserLookup, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.AbortWithError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			return
		}

		ok, err := authenticate(c, issuer, lookup, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			logger.WithContext(c.Request.Context(), log).Error("user lookup failed", zap.Error(err))
			utils.AbortWithError(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		if !ok {
			utils.AbortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		c.Next()
	}
}

// OptionalJWTMiddleware attaches the caller when a valid bearer token is sent
// and lets anonymous requests through.
func OptionalJWTMiddleware(issuer *utils.TokenIssuer, lookup UserLookup, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			if _, err := authenticate(c, issuer, lookup, strings.TrimPrefix(authHeader, "Bearer ")); err != nil {
				logger.WithContext(c.Request.Context(), log).Warn("user lookup failed", zap.Error(err))
			}
		}
		c.Next()
	}
}

// authenticate attaches the stored user behind token. Name, email and role
// come from the row, not the claims.
func authenticate(c *gin.Context, issuer *utils.TokenIssuer, lookup UserLookup, token string) (bool, error) {
	claims, err := issuer.ValidateToken(token)
	if err != nil {
		return false, nil
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return false, nil
	}

	id, err := lookup(c.Request.Context(), userID)
	if err != nil || id == nil {
		return false, err
	}
	c.Request = c.Request.WithContext(identity.WithIdentity(c.Request.Context(), *id))
	c.Set("user_id", userID.String())
	return true, nil
}

// RoleMiddleware admits callers whose stored role equals requiredRole.
func RoleMiddleware(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity.FromGin(c)
		if !ok {
			utils.AbortWithError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			return
		}
		if id.Role != requiredRole {
			utils.AbortWithError(c, http.StatusForbidden, "Este recurso é exclusivo para assinantes Premium.")
			return
		}
		c.Next()
	}
}
