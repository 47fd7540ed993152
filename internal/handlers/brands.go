package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/storeadmin/internal/models"
	"github.com/charlesng35/storeadmin/internal/repository"
	"github.com/charlesng35/storeadmin/pkg/response"
)

// BrandHandler exposes CRUD endpoints for brands.
type BrandHandler struct {
	brands repository.Repository[models.Brand, repository.BrandInput]
	msg    resourceMessages
}

func NewBrandHandler(brands repository.Repository[models.Brand, repository.BrandInput]) *BrandHandler {
	return &BrandHandler{brands: brands, msg: newResourceMessages("brand", "brands")}
}

type brandRequest struct {
	Name *string `json:"name" validate:"required,min=3,max=50"`
}

type brandPatchRequest struct {
	Name *string `json:"name" validate:"omitempty,min=3,max=50"`
}

// GET /api/v1/brands
func (h *BrandHandler) List(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}

	page, err := h.brands.List(requestContext(c), q.Page, q.Paginate)
	if err != nil {
		renderFailure(c, h.msg.failed("fetching brands"), err)
		return
	}
	renderPage(c, h.msg, page)
}

// GET /api/v1/brands/:id
func (h *BrandHandler) Get(c *gin.Context) {
	brand, found, err := h.brands.FindByID(requestContext(c), c.Param("id"))
	if err != nil {
		renderFailure(c, h.msg.failed("fetching brand"), err)
		return
	}
	if !found {
		renderNotFound(c, h.msg.notFound())
		return
	}
	response.Success(c, http.StatusOK, h.msg.fetched(), brand)
}

// POST /api/v1/brands
func (h *BrandHandler) Create(c *gin.Context) {
	var req brandRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if h.nameTaken(c, req.Name, "") {
		return
	}

	brand, err := h.brands.Create(requestContext(c), repository.BrandInput{Name: req.Name})
	if err != nil {
		renderFailure(c, h.msg.failed("creating brand"), err)
		return
	}
	response.Success(c, http.StatusCreated, h.msg.created(), brand)
}

// PUT|PATCH /api/v1/brands/:id
func (h *BrandHandler) Update(c *gin.Context) {
	id := c.Param("id")
	mode := updateMode(c)

	var input repository.BrandInput
	if mode == repository.UpdateFull {
		var req brandRequest
		if !bindAndValidate(c, &req) {
			return
		}
		input.Name = req.Name
	} else {
		var req brandPatchRequest
		if !bindAndValidate(c, &req) {
			return
		}
		input.Name = req.Name
	}

	if h.nameTaken(c, input.Name, id) {
		return
	}

	brand, found, err := h.brands.Update(requestContext(c), id, input, mode)
	if err != nil {
		renderFailure(c, h.msg.failed("updating brand"), err)
		return
	}
	if !found {
		renderNotFound(c, h.msg.notFound())
		return
	}
	response.Success(c, http.StatusOK, h.msg.updated(), brand)
}

// DELETE /api/v1/brands/:id
func (h *BrandHandler) Delete(c *gin.Context) {
	_, found, err := h.brands.Delete(requestContext(c), c.Param("id"))
	if err != nil {
		renderFailure(c, h.msg.failed("deleting brand"), err)
		return
	}
	if !found {
		renderNotFound(c, h.msg.notFound())
		return
	}
	response.Success(c, http.StatusOK, h.msg.deleted(), nil)
}

func (h *BrandHandler) nameTaken(c *gin.Context, name *string, excludeID string) bool {
	return nameTaken(c, func(name, excludeID string) (bool, error) {
		return h.brands.NameTaken(requestContext(c), name, excludeID)
	}, name, excludeID, h.msg)
}
