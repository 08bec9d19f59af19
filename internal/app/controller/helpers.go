package controller

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apperrors "github.com/ikkim/gamecatalog-backend/internal/errors"
	"github.com/ikkim/gamecatalog-backend/internal/middleware"
)

// Pagination bounds the skip/limit query of list endpoints.
type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

type pageQuery struct {
	Skip  int  `form:"skip" binding:"min=0"`
	Limit *int `form:"limit" binding:"omitempty,min=1"`
}

// page reads skip and limit from the query string. Limits above the maximum
// are clamped. It writes the 422 itself on failure.
func (p Pagination) page(c *gin.Context) (skip, limit int, ok bool) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apperrors.RespondWithBindError(c, err)
		return 0, 0, false
	}

	limit = p.DefaultLimit
	if q.Limit != nil {
		limit = *q.Limit
	}
	if limit > p.MaxLimit {
		limit = p.MaxLimit
	}
	return q.Skip, limit, true
}

// pathID parses the :id path parameter and writes the 422 itself on failure.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid id in path", map[string]interface{}{
			"id": c.Param("id"),
		})
		apperrors.RespondWithValidationError(c, map[string]string{"id": "must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func deletedInfo(entity string, id uuid.UUID) gin.H {
	return gin.H{"info": fmt.Sprintf("%s %s has been deleted.", entity, id)}
}
