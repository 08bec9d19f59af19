package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/gamecatalog-backend/internal/app/service"
	apperrors "github.com/ikkim/gamecatalog-backend/internal/errors"
)

type PublisherController struct {
	publisherService service.PublisherService
	pages            Pagination
}

func NewPublisherController(publisherService service.PublisherService, pages Pagination) *PublisherController {
	return &PublisherController{
		publisherService: publisherService,
		pages:            pages,
	}
}

// POST /api/v1/publishers/
func (ctrl *PublisherController) Create(c *gin.Context) {
	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	publisher, err := ctrl.publisherService.Create(req.input())
	if err != nil {
		respondCatalogError(c, err, "Publisher")
		return
	}
	c.JSON(http.StatusCreated, publisher)
}

// GET /api/v1/publishers/
func (ctrl *PublisherController) List(c *gin.Context) {
	skip, limit, ok := ctrl.pages.page(c)
	if !ok {
		return
	}

	publishers, err := ctrl.publisherService.List(skip, limit)
	if err != nil {
		respondCatalogError(c, err, "Publisher")
		return
	}
	c.JSON(http.StatusOK, publishers)
}

// GET /api/v1/publishers/:id
func (ctrl *PublisherController) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	publisher, err := ctrl.publisherService.GetByID(id)
	if err != nil {
		respondCatalogError(c, err, "Publisher")
		return
	}
	c.JSON(http.StatusOK, publisher)
}

// PATCH /api/v1/publishers/:id
func (ctrl *PublisherController) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindError(c, err)
		return
	}

	publisher, err := ctrl.publisherService.Update(id, req.patch())
	if err != nil {
		respondCatalogError(c, err, "Publisher")
		return
	}
	c.JSON(http.StatusOK, publisher)
}

// DELETE /api/v1/publishers/:id
func (ctrl *PublisherController) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := ctrl.publisherService.Delete(id); err != nil {
		respondCatalogError(c, err, "Publisher")
		return
	}
	c.JSON(http.StatusOK, deletedInfo("Publisher", id))
}
