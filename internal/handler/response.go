// Package handler is the gin HTTP surface. Handlers bind and validate input,
// resolve the authenticated principal, delegate to the services and translate
// typed errors to status codes. No business rules live here.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskboard/internal/apperr"
	"taskboard/internal/middleware"
)

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": true, "message": message})
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindPermission:
		status = http.StatusForbidden
	case apperr.KindConflict:
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{
		"success":    false,
		"message":    apperr.MessageOf(err),
		"statusCode": status,
	})
}

// principal returns the authenticated user id set by the auth middleware.
func principal(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not authenticated", "statusCode": http.StatusUnauthorized})
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Invalid user ID format", "statusCode": http.StatusInternalServerError})
		return uuid.Nil, false
	}
	return userID, true
}

// pathID parses the named uuid path parameter, answering 400 on bad input.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid " + name + " format", "statusCode": http.StatusBadRequest})
		return uuid.Nil, false
	}
	return id, true
}
