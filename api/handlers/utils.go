package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kutbudev/todolists/internal/remote"
)

// writeError maps a store error to its status and error body.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch remote.KindOf(err) {
	case remote.NotFound:
		status = http.StatusNotFound
	case remote.ValidationFailed:
		status = http.StatusBadRequest
	}

	msg := err.Error()
	var re *remote.Error
	if errors.As(err, &re) && re.Message != "" {
		msg = re.Message
	}
	if re != nil && re.Kind == remote.ValidationFailed && re.Field != "" {
		c.JSON(status, gin.H{"errors": gin.H{re.Field: []string{msg}}})
		return
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "Failed to process request"
	}
	c.JSON(status, gin.H{"error": msg})
}

// paramID parses the :id route parameter, answering 400 itself on failure.
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// checkBodyID rejects a body whose id disagrees with the route.
func checkBodyID(c *gin.Context, routeID int, bodyID *int) bool {
	if bodyID != nil && *bodyID != routeID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id in body does not match route"})
		return false
	}
	return true
}
