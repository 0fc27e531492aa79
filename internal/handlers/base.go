package handlers

import (
	"errors"
	"net/http"

	"threadboard/internal/middleware"
	"threadboard/internal/services"
	"threadboard/internal/validate"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Success writes {"success": message}.
func Success(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": message})
}

// Error writes {"error": message}.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// bindJSON decodes the request body into dst. A malformed body is reported as
// a validation failure on _schema.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"_schema": []string{"Invalid input data."}}})
		return false
	}
	return true
}

// RespondError maps service errors onto status codes and messages.
// Anything unrecognised is logged and hidden behind a generic 500.
func RespondError(c *gin.Context, log *logrus.Logger, err error) {
	var verrs *validate.Errors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verrs.Messages()})
	case errors.Is(err, services.ErrDuplicateIdentity):
		Error(c, http.StatusBadRequest, "Username or email already exists")
	case errors.Is(err, services.ErrNoSuchUser), errors.Is(err, services.ErrUserNotFound):
		Error(c, http.StatusBadRequest, "No user found")
	case errors.Is(err, services.ErrIncorrectPassword):
		Error(c, http.StatusBadRequest, "Incorrect password")
	case errors.Is(err, services.ErrUnknownUser):
		Error(c, http.StatusBadRequest, "User doesn't exist")
	case errors.Is(err, services.ErrUnknownParent):
		Error(c, http.StatusBadRequest, "Parent comment doesn't exist")
	case errors.Is(err, services.ErrCommentNotFound):
		Error(c, http.StatusNotFound, "Comment does not exist")
	case errors.Is(err, services.ErrIdentityMismatch):
		Error(c, http.StatusForbidden, "User id doesn't belong to current user")
	case errors.Is(err, services.ErrNotOwner):
		Error(c, http.StatusForbidden, "You are not authorized to delete this comment")
	case errors.Is(err, services.ErrForbidden):
		Error(c, http.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrInvalidToken):
		Error(c, http.StatusUnauthorized, "Missing or invalid token")
	default:
		_ = c.Error(err)
		log.WithError(err).WithField("request_id", c.GetString(middleware.RequestIDKey)).Error("Unhandled error")
		Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
