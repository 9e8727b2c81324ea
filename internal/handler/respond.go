package handler

import (
	"log"
	"net/http"

	"rifa/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondError maps the business error taxonomy onto HTTP status codes.
// Messages are display-ready; persistence failures are logged and masked.
func respondError(c *gin.Context, err error) {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindStateConflict, domain.KindCapacity:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("[http] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
