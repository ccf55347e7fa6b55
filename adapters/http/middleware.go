package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/spotme/internal/application/lifecycle"
	"github.com/khoahotran/spotme/pkg/apperror"
	"github.com/khoahotran/spotme/pkg/auth"
	"github.com/khoahotran/spotme/pkg/logger"
)

const (
	GinContextKeyOwnerID = "ownerID"
	GinContextKeyClaims  = "claims"
)

// AuthMiddleware accepts a bearer token, or an access_token query parameter
// for websocket upgrades where browsers cannot set headers.
func AuthMiddleware(jwtSvc *auth.JWTService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			log.Debug("Rejected token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(GinContextKeyOwnerID, claims.OwnerID)
		c.Set(GinContextKeyClaims, claims)

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		t := c.Query("access_token")
		return t, t != ""
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader || tokenString == "" {
		return "", false
	}
	return tokenString, true
}

func GetOwnerIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := c.Get(GinContextKeyOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	ownerIDUUID, ok := ownerID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return ownerIDUUID, true
}

// GetIdentityFromGinContext returns the editing identity carried by the
// validated token.
func GetIdentityFromGinContext(c *gin.Context) (lifecycle.Identity, bool) {
	v, ok := c.Get(GinContextKeyClaims)
	if !ok {
		return lifecycle.Identity{}, false
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return lifecycle.Identity{}, false
	}
	return lifecycle.Identity{UserID: claims.OwnerID, Username: claims.Username, Email: claims.Email}, true
}

// ErrorMiddleware renders the last error a handler attached with c.Error.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)

		if status >= http.StatusInternalServerError {
			log.Error("Request failed", err, zap.String("path", c.FullPath()), zap.String("method", c.Request.Method))
		} else {
			log.Debug("Request rejected", zap.String("path", c.FullPath()), zap.Error(err))
		}

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			c.JSON(status, appErr.ToJSON())
			return
		}
		c.JSON(status, gin.H{"error": http.StatusText(status)})
	}
}
