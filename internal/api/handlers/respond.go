package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/smartstockx/backend-go/internal/domain"
)

// respondError maps domain errors onto HTTP responses. A missing analytics result
// is not a failure: clients get 200 with available=false.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNoAnalytics), errors.Is(err, domain.ErrEmptyCollection):
		c.JSON(http.StatusOK, gin.H{"available": false, "message": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
