package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/gamecatalog-backend/internal/app/model"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	apperrors "github.com/ikkim/gamecatalog-backend/internal/errors"
	"github.com/ikkim/gamecatalog-backend/internal/middleware"
)

type GameController struct {
	gameService service.GameService
	pages       Pagination
}

func NewGameController(gameService service.GameService, pages Pagination) *GameController {
	return &GameController{
		gameService: gameService,
		pages:       pages,
	}
}

// CreateGameRequest names related rows instead of referencing their ids.
type CreateGameRequest struct {
	Name        string      `json:"name" binding:"required,max=255"`
	Price       float64     `json:"price" binding:"required,gt=0"`
	Discount    float64     `json:"discount" binding:"min=0"`
	Description string      `json:"description"`
	ReleaseDate *model.Date `json:"release_date"`
	Genres      []string    `json:"genres"`
	Developers  []string    `json:"developers"`
	Publishers  []string    `json:"publishers"`
	Platforms   []string    `json:"platforms"`
}

// UpdateGameRequest leaves out any field that is absent or null. A present
// list, even an empty one, replaces the association.
type UpdateGameRequest struct {
	Name        *string     `json:"name" binding:"omitempty,max=255"`
	Price       *float64    `json:"price" binding:"omitempty,gt=0"`
	Discount    *float64    `json:"discount" binding:"omitempty,min=0"`
	Description *string     `json:"description"`
	ReleaseDate *model.Date `json:"release_date"`
	Genres      *[]string   `json:"genres"`
	Developers  *[]string   `json:"developers"`
	Publishers  *[]string   `json:"publishers"`
	Platforms   *[]string   `json:"platforms"`
}

type CoverUploadRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// POST /api/v1/games/
func (ctrl *GameController) Create(c *gin.Context) {
	var req CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	game, err := ctrl.gameService.Create(service.GameInput{
		Name:        req.Name,
		Price:       req.Price,
		Discount:    req.Discount,
		Description: req.Description,
		ReleaseDate: req.ReleaseDate,
		Genres:      req.Genres,
		Developers:  req.Developers,
		Publishers:  req.Publishers,
		Platforms:   req.Platforms,
	})
	if err != nil {
		respondGameError(c, err, "create game")
		return
	}
	c.JSON(http.StatusCreated, game)
}

// GET /api/v1/games/
func (ctrl *GameController) List(c *gin.Context) {
	skip, limit, ok := ctrl.pages.page(c)
	if !ok {
		return
	}

	games, err := ctrl.gameService.List(skip, limit)
	if err != nil {
		respondGameError(c, err, "list games")
		return
	}
	c.JSON(http.StatusOK, games)
}

// GET /api/v1/games/:id
func (ctrl *GameController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	game, err := ctrl.gameService.GetByID(id)
	if err != nil {
		respondGameError(c, err, "get game")
		return
	}
	c.JSON(http.StatusOK, game)
}

// PATCH /api/v1/games/:id
func (ctrl *GameController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	game, err := ctrl.gameService.Update(id, service.GamePatch{
		Name:        req.Name,
		Price:       req.Price,
		Discount:    req.Discount,
		Description: req.Description,
		ReleaseDate: req.ReleaseDate,
		Genres:      req.Genres,
		Developers:  req.Developers,
		Publishers:  req.Publishers,
		Platforms:   req.Platforms,
	})
	if err != nil {
		respondGameError(c, err, "update game")
		return
	}
	c.JSON(http.StatusOK, game)
}

// DELETE /api/v1/games/:id
func (ctrl *GameController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctrl.gameService.Delete(id); err != nil {
		respondGameError(c, err, "delete game")
		return
	}
	c.JSON(http.StatusOK, deletedInfo("Game", id))
}

// UploadCover returns a presigned URL the client PUTs the cover image to
// POST /api/v1/games/:id/cover
func (ctrl *GameController) UploadCover(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req CoverUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	upload, err := ctrl.gameService.CreateCoverUpload(c.Request.Context(), id, req.Filename, req.ContentType)
	if err != nil {
		respondGameError(c, err, "prepare cover upload")
		return
	}
	c.JSON(http.StatusOK, upload)
}

// respondGameError maps service errors to responses. operation names the
// failed action in the fallback message.
func respondGameError(c *gin.Context, err error, operation string) {
	var unresolved *service.UnresolvedNamesError
	switch {
	case errors.As(err, &unresolved):
		apperrors.NotFound(c, apperrors.CatalogUnresolvedNames, unresolved.Error())
	case errors.Is(err, service.ErrGameNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Game not found.")
	case errors.Is(err, service.ErrGameExists):
		apperrors.Conflict(c, apperrors.CatalogGameExists, "Game with this name and platforms exists.")
	case errors.Is(err, service.ErrInvalidGame):
		apperrors.RespondWithValidationError(c, map[string]string{"game": err.Error()})
	case errors.Is(err, service.ErrEmptyName):
		apperrors.RespondWithValidationError(c, map[string]string{"name": "must not be blank"})
	case errors.Is(err, service.ErrUnsupportedCoverType):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Cover must be a JPEG, PNG or WebP image")
	case errors.Is(err, service.ErrCoverStorageUnavailable):
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadUnavailable, "Cover uploads are not configured")
	default:
		middleware.GetLoggerFromContext(c).Error("Game operation failed", err, map[string]interface{}{
			"operation": operation,
		})
		apperrors.ParseAndRespond(c, err, operation)
	}
}
