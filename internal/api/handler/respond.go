package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/brandshot/internal/domain"
)

// respondError maps a service error onto an HTTP status and JSON body.
// Validation problems are 400, missing resources 404, auth failures
// 401/403, provider trouble 502 and missing configuration 500.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *domain.ValidationError
		notFoundErr   *domain.NotFoundError
		externalErr   *domain.ExternalServiceError
		configErr     *domain.ConfigurationError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.As(err, &externalErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "upstream service error",
			"details": externalErr.Error(),
		})
	case errors.As(err, &configErr):
		c.JSON(http.StatusInternalServerError, gin.H{"error": configErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
