package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	apperrors "github.com/ikkim/gamecatalog-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupUserControllerTest(current *model.User) (*gin.Engine, *mockUserService) {
	userService := new(mockUserService)
	ctrl := NewUserController(userService, testPages)

	router := gin.New()
	users := router.Group("/users", asUser(current))
	users.GET("/", ctrl.List)
	users.GET("/me", ctrl.GetMe)
	users.PATCH("/me", ctrl.UpdateMe)
	users.GET("/:id", ctrl.Get)
	users.PATCH("/:id", ctrl.Update)
	users.DELETE("/:id", ctrl.Delete)

	return router, userService
}

func TestUserController_Get(t *testing.T) {
	owner := newUser(model.RoleUser)

	t.Run("Owner", func(t *testing.T) {
		router, userService := setupUserControllerTest(owner)
		userService.On("GetByID", owner.ID).Return(owner, nil)

		w := performJSON(router, http.MethodGet, "/users/"+owner.ID.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Staff", func(t *testing.T) {
		router, userService := setupUserControllerTest(newUser(model.RoleModerator))
		userService.On("GetByID", owner.ID).Return(owner, nil)

		w := performJSON(router, http.MethodGet, "/users/"+owner.ID.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Another user", func(t *testing.T) {
		router, userService := setupUserControllerTest(newUser(model.RoleUser))

		w := performJSON(router, http.MethodGet, "/users/"+owner.ID.String(), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		userService.AssertNotCalled(t, "GetByID", mock.Anything)
	})

	t.Run("Invalid id", func(t *testing.T) {
		router, _ := setupUserControllerTest(owner)

		w := performJSON(router, http.MethodGet, "/users/not-a-uuid", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Missing", func(t *testing.T) {
		admin := newUser(model.RoleAdmin)
		router, userService := setupUserControllerTest(admin)
		missing := uuid.New()
		userService.On("GetByID", missing).Return(nil, service.ErrUserNotFound)

		w := performJSON(router, http.MethodGet, "/users/"+missing.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUserController_UpdateMe_RoleChangeForbidden(t *testing.T) {
	user := newUser(model.RoleUser)
	router, userService := setupUserControllerTest(user)
	admin := model.RoleAdmin
	userService.On("Update", user, user.ID, service.UserPatch{Role: &admin}).Return(nil, model.ErrForbidden)

	w := performJSON(router, http.MethodPatch, "/users/me", map[string]string{"role": "admin"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.AuthzForbidden, errorBody(t, w).Error)
}

func TestUserController_Delete(t *testing.T) {
	user := newUser(model.RoleUser)
	router, userService := setupUserControllerTest(user)
	userService.On("Delete", user.ID).Return(nil)

	w := performJSON(router, http.MethodDelete, "/users/"+user.ID.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User "+user.ID.String()+" has been deleted.")
}

func TestUserController_List_Pagination(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantSkip  int
		wantLimit int
	}{
		{"Defaults", "", 0, 50},
		{"Explicit", "?skip=10&limit=20", 10, 20},
		{"Clamped", "?limit=1000", 0, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, userService := setupUserControllerTest(newUser(model.RoleAdmin))
			userService.On("List", tt.wantSkip, tt.wantLimit).Return([]model.User{}, nil)

			w := performJSON(router, http.MethodGet, "/users/"+tt.query, nil)

			assert.Equal(t, http.StatusOK, w.Code)
			userService.AssertExpectations(t)
		})
	}

	t.Run("Negative skip", func(t *testing.T) {
		router, userService := setupUserControllerTest(newUser(model.RoleAdmin))

		w := performJSON(router, http.MethodGet, "/users/?skip=-1", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		userService.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})
}
