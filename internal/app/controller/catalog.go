package controller

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	apperrors "github.com/ikkim/gamecatalog-backend/internal/errors"
	"github.com/ikkim/gamecatalog-backend/internal/middleware"
)

// respondCatalogError maps genre, publisher, developer and platform service
// errors. label is the capitalised entity name used in messages.
func respondCatalogError(c *gin.Context, err error, label string) {
	switch {
	case errors.Is(err, service.ErrCatalogNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, label+" not found.")
	case errors.Is(err, service.ErrCatalogNameExists):
		apperrors.Conflict(c, apperrors.ResourceAlreadyExists, label+" with this name exists.")
	case errors.Is(err, service.ErrEmptyName):
		apperrors.RespondWithValidationError(c, map[string]string{"name": "must not be blank"})
	default:
		middleware.GetLoggerFromContext(c).Error("Catalog operation failed", err, map[string]interface{}{
			"entity": label,
		})
		apperrors.ParseAndRespond(c, err, "update "+strings.ToLower(label))
	}
}
