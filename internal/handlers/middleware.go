package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// accountIDKey is the gin context key the authenticated account's ID is
// stored under for downstream handlers.
const accountIDKey = "accountId"

const (
	authHeaderName = "Authorization"
	bearerScheme   = "Bearer"

	errMissingAuthHeader = "missing Authorization header"
	errBadAuthHeader     = "invalid Authorization header format"
	errBadToken          = "invalid or expired token"
)

// userIdMiddleware validates the bearer token on protected routes and
// stores the dashboard account ID in the request context.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader(authHeaderName)
	if header == "" {
		h.abortUnauthorized(c, errMissingAuthHeader, nil)
		return
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != bearerScheme || token == "" {
		h.abortUnauthorized(c, errBadAuthHeader, nil)
		return
	}

	accountID, err := h.services.ParseToken(token)
	if err != nil {
		h.abortUnauthorized(c, errBadToken, err)
		return
	}

	c.Set(accountIDKey, accountID)
	c.Next()
}

func (h *Handler) abortUnauthorized(c *gin.Context, msg string, err error) {
	if h.log != nil {
		h.log.Infow("auth_rejected", "path", c.FullPath(), "reason", msg, "err", err)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
