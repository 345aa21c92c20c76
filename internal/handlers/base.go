package handlers

import (
	"errors"
	"net/http"

	"github.com/ifradhos55/Markain/internal/middleware"
	"github.com/ifradhos55/Markain/internal/services"

	"github.com/gin-gonic/gin"
)

// Render injects common variables like the current user before rendering.
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user, exists := c.Get(middleware.CheckUserKey); exists {
		obj["CurrentUser"] = user
		if count, ok := c.Get(middleware.UnreadCountKey); ok {
			obj["UnreadCount"] = int(count.(int64))
		} else {
			obj["UnreadCount"] = 0
		}
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the shared error page.
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// abortServiceError maps the service failure taxonomy onto HTTP statuses for
// JSON endpoints. Anything outside the taxonomy is a 500 with a generic body.
func abortServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrDefaultGroup):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
	}
}

// redirectServiceError is the same mapping for form posts that normally
// redirect: failures land on the error page instead.
func redirectServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrDefaultGroup):
		RenderError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNotFound):
		RenderError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrForbidden):
		RenderError(c, http.StatusForbidden, "You are not allowed to do that")
	default:
		RenderError(c, http.StatusInternalServerError, "Something went wrong")
	}
}
