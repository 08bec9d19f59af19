package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	apperrors "github.com/ikkim/gamecatalog-backend/internal/errors"
)

type GenreController struct {
	genreService service.GenreService
	pages        Pagination
}

func NewGenreController(genreService service.GenreService, pages Pagination) *GenreController {
	return &GenreController{
		genreService: genreService,
		pages:        pages,
	}
}

type CreateGenreRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
}

type UpdateGenreRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
}

// POST /api/v1/genres/
func (ctrl *GenreController) Create(c *gin.Context) {
	var req CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	genre, err := ctrl.genreService.Create(service.GenreInput{Name: req.Name, Description: req.Description})
	if err != nil {
		respondCatalogError(c, err, "Genre")
		return
	}
	c.JSON(http.StatusCreated, genre)
}

// GET /api/v1/genres/
func (ctrl *GenreController) List(c *gin.Context) {
	skip, limit, ok := ctrl.pages.page(c)
	if !ok {
		return
	}

	genres, err := ctrl.genreService.List(skip, limit)
	if err != nil {
		respondCatalogError(c, err, "Genre")
		return
	}
	c.JSON(http.StatusOK, genres)
}

// GET /api/v1/genres/:id
func (ctrl *GenreController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	genre, err := ctrl.genreService.GetByID(id)
	if err != nil {
		respondCatalogError(c, err, "Genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

// GET /api/v1/genres/slug/:slug
func (ctrl *GenreController) GetBySlug(c *gin.Context) {
	genre, err := ctrl.genreService.GetBySlug(c.Param("slug"))
	if err != nil {
		respondCatalogError(c, err, "Genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

// PATCH /api/v1/genres/:id
func (ctrl *GenreController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	genre, err := ctrl.genreService.Update(id, service.GenrePatch{Name: req.Name, Description: req.Description})
	if err != nil {
		respondCatalogError(c, err, "Genre")
		return
	}
	c.JSON(http.StatusOK, genre)
}

// DELETE /api/v1/genres/:id
func (ctrl *GenreController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctrl.genreService.Delete(id); err != nil {
		respondCatalogError(c, err, "Genre")
		return
	}
	c.JSON(http.StatusOK, deletedInfo("Genre", id))
}
