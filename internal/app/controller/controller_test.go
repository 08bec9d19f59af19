package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	apperrors "github.com/ikkim/gamecatalog-backend/internal/errors"
	"github.com/ikkim/gamecatalog-backend/internal/middleware"
	"github.com/ikkim/gamecatalog-backend/internal/storage"
	"github.com/ikkim/gamecatalog-backend/pkg/logger"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testPages = Pagination{DefaultLimit: 50, MaxLimit: 100}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Initialize(logger.Config{Level: "disabled"})
	os.Exit(m.Run())
}

// asUser stands in for the auth middleware.
func asUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.CurrentUserKey, user)
		}
		c.Next()
	}
}

func newUser(role model.UserRole) *model.User {
	return &model.User{ID: uuid.New(), Username: "user-" + string(role), Role: role}
}

func performJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(username, email, password string) (*model.User, error) {
	args := m.Called(username, email, password)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockAuthService) Login(username, password string) (*service.AccessToken, error) {
	args := m.Called(username, password)
	token, _ := args.Get(0).(*service.AccessToken)
	return token, args.Error(1)
}

func (m *mockAuthService) ResolveAccessToken(token string) (*model.User, error) {
	args := m.Called(token)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockAuthService) ResolveResetSession(token string) (*model.User, error) {
	args := m.Called(token)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

type mockPasswordResetService struct {
	mock.Mock
}

func (m *mockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	return m.Called(email).Error(0)
}

func (m *mockPasswordResetService) ExchangeCode(ctx context.Context, code string) (*service.AccessToken, error) {
	args := m.Called(code)
	token, _ := args.Get(0).(*service.AccessToken)
	return token, args.Error(1)
}

func (m *mockPasswordResetService) CompleteReset(user *model.User, newPassword, confirmPassword string) error {
	return m.Called(user, newPassword, confirmPassword).Error(0)
}

func (m *mockPasswordResetService) ChangePassword(user *model.User, oldPassword, newPassword, confirmPassword string) error {
	return m.Called(user, oldPassword, newPassword, confirmPassword).Error(0)
}

func (m *mockPasswordResetService) SweepExpiredTokens() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) GetByID(id uuid.UUID) (*model.User, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserService) List(skip, limit int) ([]model.User, error) {
	args := m.Called(skip, limit)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *mockUserService) Update(actor *model.User, id uuid.UUID, patch service.UserPatch) (*model.User, error) {
	args := m.Called(actor, id, patch)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockUserService) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

type mockGenreService struct {
	mock.Mock
}

func (m *mockGenreService) Create(input service.GenreInput) (*model.Genre, error) {
	args := m.Called(input)
	genre, _ := args.Get(0).(*model.Genre)
	return genre, args.Error(1)
}

func (m *mockGenreService) GetByID(id uuid.UUID) (*model.Genre, error) {
	args := m.Called(id)
	genre, _ := args.Get(0).(*model.Genre)
	return genre, args.Error(1)
}

func (m *mockGenreService) GetBySlug(slug string) (*model.Genre, error) {
	args := m.Called(slug)
	genre, _ := args.Get(0).(*model.Genre)
	return genre, args.Error(1)
}

func (m *mockGenreService) List(skip, limit int) ([]model.Genre, error) {
	args := m.Called(skip, limit)
	genres, _ := args.Get(0).([]model.Genre)
	return genres, args.Error(1)
}

func (m *mockGenreService) Update(id uuid.UUID, patch service.GenrePatch) (*model.Genre, error) {
	args := m.Called(id, patch)
	genre, _ := args.Get(0).(*model.Genre)
	return genre, args.Error(1)
}

func (m *mockGenreService) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

type mockGameService struct {
	mock.Mock
}

func (m *mockGameService) Create(input service.GameInput) (*model.Game, error) {
	args := m.Called(input)
	game, _ := args.Get(0).(*model.Game)
	return game, args.Error(1)
}

func (m *mockGameService) GetByID(id uuid.UUID) (*model.Game, error) {
	args := m.Called(id)
	game, _ := args.Get(0).(*model.Game)
	return game, args.Error(1)
}

func (m *mockGameService) List(skip, limit int) ([]model.Game, error) {
	args := m.Called(skip, limit)
	games, _ := args.Get(0).([]model.Game)
	return games, args.Error(1)
}

func (m *mockGameService) Update(id uuid.UUID, patch service.GamePatch) (*model.Game, error) {
	args := m.Called(id, patch)
	game, _ := args.Get(0).(*model.Game)
	return game, args.Error(1)
}

func (m *mockGameService) Delete(id uuid.UUID) error {
	return m.Called(id).Error(0)
}

func (m *mockGameService) CreateCoverUpload(ctx context.Context, id uuid.UUID, filename, contentType string) (*storage.PresignedUpload, error) {
	args := m.Called(id, filename, contentType)
	upload, _ := args.Get(0).(*storage.PresignedUpload)
	return upload, args.Error(1)
}
