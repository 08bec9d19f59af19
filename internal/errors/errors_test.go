package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		context    string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "Record not found",
			err:        fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound),
			context:    "get genre",
			wantStatus: http.StatusNotFound,
			wantCode:   ResourceNotFound,
		},
		{
			name:       "Postgres unique violation on username",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"},
			wantStatus: http.StatusBadRequest,
			wantCode:   AuthUsernameExists,
		},
		{
			name:       "Postgres unique violation on email",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"},
			wantStatus: http.StatusBadRequest,
			wantCode:   AuthEmailAlreadyExists,
		},
		{
			name:       "Sqlite unique failure",
			err:        fmt.Errorf("UNIQUE constraint failed: genres.name"),
			wantStatus: http.StatusBadRequest,
			wantCode:   ResourceAlreadyExists,
		},
		{
			name:       "Postgres foreign key violation",
			err:        &pgconn.PgError{Code: "23503"},
			wantStatus: http.StatusBadRequest,
			wantCode:   ResourceConflict,
		},
		{
			name:       "Unknown error",
			err:        fmt.Errorf("something odd"),
			context:    "create game",
			wantStatus: http.StatusInternalServerError,
			wantCode:   InternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantStatus, info.Status)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_NotFoundMessageNamesEntity(t *testing.T) {
	info := ParseError(gorm.ErrRecordNotFound, "delete publisher")
	assert.Equal(t, "Publisher not found.", info.Message)
}

type bindTarget struct {
	Email         string `json:"email" binding:"required,email"`
	NewPassword   string `json:"new_password" binding:"required,min=8"`
	ReNewPassword string `json:"re_new_password" binding:"required"`
}

func TestRespondWithBindError_ListsFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/bind", func(c *gin.Context) {
		var req bindTarget
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondWithBindError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{
			name:       "Missing and malformed fields",
			body:       `{"email":"not-an-email","new_password":"short"}`,
			wantFields: []string{"email", "new_password", "re_new_password"},
		},
		{
			name:       "Malformed JSON",
			body:       `{"email":`,
			wantFields: []string{"body"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

			var resp ValidationError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, ValidationInvalidInput, resp.Error)
			for _, f := range tt.wantFields {
				assert.Contains(t, resp.Fields, f)
			}
		})
	}
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "re_new_password", toSnake("ReNewPassword"))
	assert.Equal(t, "email", toSnake("Email"))
}
