package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	apperrors "github.com/ikkim/gamecatalog-backend/internal/errors"
)

type PlatformController struct {
	platformService service.PlatformService
	pages           Pagination
}

func NewPlatformController(platformService service.PlatformService, pages Pagination) *PlatformController {
	return &PlatformController{
		platformService: platformService,
		pages:           pages,
	}
}

type PlatformRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// POST /api/v1/platforms/
func (ctrl *PlatformController) Create(c *gin.Context) {
	var req PlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	platform, err := ctrl.platformService.Create(req.Name)
	if err != nil {
		respondCatalogError(c, err, "Platform")
		return
	}
	c.JSON(http.StatusCreated, platform)
}

// GET /api/v1/platforms/
func (ctrl *PlatformController) List(c *gin.Context) {
	skip, limit, ok := ctrl.pages.page(c)
	if !ok {
		return
	}

	platforms, err := ctrl.platformService.List(skip, limit)
	if err != nil {
		respondCatalogError(c, err, "Platform")
		return
	}
	c.JSON(http.StatusOK, platforms)
}

// GET /api/v1/platforms/:id
func (ctrl *PlatformController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	platform, err := ctrl.platformService.GetByID(id)
	if err != nil {
		respondCatalogError(c, err, "Platform")
		return
	}
	c.JSON(http.StatusOK, platform)
}

// PATCH /api/v1/platforms/:id
func (ctrl *PlatformController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req PlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	platform, err := ctrl.platformService.Rename(id, req.Name)
	if err != nil {
		respondCatalogError(c, err, "Platform")
		return
	}
	c.JSON(http.StatusOK, platform)
}

// DELETE /api/v1/platforms/:id
func (ctrl *PlatformController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctrl.platformService.Delete(id); err != nil {
		respondCatalogError(c, err, "Platform")
		return
	}
	c.JSON(http.StatusOK, deletedInfo("Platform", id))
}
