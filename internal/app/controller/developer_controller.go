package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	apperrors "github.com/ikkim/gamecatalog-backend/internal/errors"
)

type DeveloperController struct {
	developerService service.DeveloperService
	pages            Pagination
}

func NewDeveloperController(developerService service.DeveloperService, pages Pagination) *DeveloperController {
	return &DeveloperController{
		developerService: developerService,
		pages:            pages,
	}
}

// POST /api/v1/developers/
func (ctrl *DeveloperController) Create(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	developer, err := ctrl.developerService.Create(req.input())
	if err != nil {
		respondCatalogError(c, err, "Developer")
		return
	}
	c.JSON(http.StatusCreated, developer)
}

// GET /api/v1/developers/
func (ctrl *DeveloperController) List(c *gin.Context) {
	skip, limit, ok := ctrl.pages.page(c)
	if !ok {
		return
	}

	developers, err := ctrl.developerService.List(skip, limit)
	if err != nil {
		respondCatalogError(c, err, "Developer")
		return
	}
	c.JSON(http.StatusOK, developers)
}

// GET /api/v1/developers/:id
func (ctrl *DeveloperController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	developer, err := ctrl.developerService.GetByID(id)
	if err != nil {
		respondCatalogError(c, err, "Developer")
		return
	}
	c.JSON(http.StatusOK, developer)
}

// PATCH /api/v1/developers/:id
func (ctrl *DeveloperController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	developer, err := ctrl.developerService.Update(id, req.patch())
	if err != nil {
		respondCatalogError(c, err, "Developer")
		return
	}
	c.JSON(http.StatusOK, developer)
}

// DELETE /api/v1/developers/:id
func (ctrl *DeveloperController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctrl.developerService.Delete(id); err != nil {
		respondCatalogError(c, err, "Developer")
		return
	}
	c.JSON(http.StatusOK, deletedInfo("Developer", id))
}
