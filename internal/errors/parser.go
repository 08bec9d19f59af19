package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrorInfo is a parsed error ready to be sent to a client.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// Postgres SQLSTATE codes the parser understands.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ParseError classifies storage errors that escaped the service layer.
// context names the operation ("create genre", "update user") and is used to
// phrase the message. Driver details never reach the client.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: "Internal server error"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicateKeyError(pgErr.ConstraintName + " " + pgErr.Detail)
		case pgForeignKeyViolation:
			return ErrorInfo{Status: http.StatusBadRequest, Code: ResourceConflict, Message: "Referenced record does not exist or is still in use"}
		case pgNotNullViolation:
			return ErrorInfo{Status: http.StatusUnprocessableEntity, Code: ValidationRequired, Message: "A required field is missing"}
		case pgCheckViolation:
			return ErrorInfo{Status: http.StatusUnprocessableEntity, Code: ValidationInvalidRange, Message: "A value is out of range"}
		}
	}

	// sqlite and wrapped driver errors only expose text
	lower := strings.ToLower(err.Error())
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(lower, "duplicate key") ||
		strings.Contains(lower, "unique constraint") {
		return duplicateKeyError(lower)
	}
	if strings.Contains(lower, "foreign key constraint") {
		return ErrorInfo{Status: http.StatusBadRequest, Code: ResourceConflict, Message: "Referenced record does not exist or is still in use"}
	}
	if strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "timeout") {
		return ErrorInfo{Status: http.StatusServiceUnavailable, Code: InternalExternalAPI, Message: "A backing service is unavailable, try again later"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: defaultMessage(context)}
}

func duplicateKeyError(detail string) ErrorInfo {
	detail = strings.ToLower(detail)
	switch {
	case strings.Contains(detail, "username"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: AuthUsernameExists, Message: "User with this username exists."}
	case strings.Contains(detail, "email"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: AuthEmailAlreadyExists, Message: "User with this email exists."}
	case strings.Contains(detail, "slug"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: ResourceAlreadyExists, Message: "Genre with this slug exists."}
	case strings.Contains(detail, "name"):
		return ErrorInfo{Status: http.StatusBadRequest, Code: ResourceAlreadyExists, Message: "Record with this name exists."}
	default:
		return ErrorInfo{Status: http.StatusBadRequest, Code: ResourceAlreadyExists, Message: "Record already exists."}
	}
}

func notFoundMessage(context string) string {
	for _, entity := range []string{"user", "game", "genre", "publisher", "developer", "platform"} {
		if strings.Contains(strings.ToLower(context), entity) {
			return strings.ToUpper(entity[:1]) + entity[1:] + " not found."
		}
	}
	return "Requested record not found."
}

func defaultMessage(context string) string {
	if context == "" {
		return "Internal server error"
	}
	return "Failed to " + context + ", try again later"
}

// ParseAndRespond parses err and writes the matching response.
func ParseAndRespond(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	RespondWithError(c, info.Status, info.Code, info.Message)
}
