package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/charlesng35/storeadmin/internal/models"
	"github.com/charlesng35/storeadmin/internal/repository"
	"github.com/charlesng35/storeadmin/pkg/response"
)

// ProductHandler exposes CRUD endpoints for products. Category and brand
// references are checked through their repositories.
type ProductHandler struct {
	products   repository.Repository[models.Product, repository.ProductInput]
	categories repository.Repository[models.Category, repository.CategoryInput]
	brands     repository.Repository[models.Brand, repository.BrandInput]
	msg        resourceMessages
}

func NewProductHandler(
	products repository.Repository[models.Product, repository.ProductInput],
	categories repository.Repository[models.Category, repository.CategoryInput],
	brands repository.Repository[models.Brand, repository.BrandInput],
) *ProductHandler {
	return &ProductHandler{
		products:   products,
		categories: categories,
		brands:     brands,
		msg:        newResourceMessages("product", "products"),
	}
}

// optionalDecimal tells an explicit null apart from an absent field. The
// json tag of Value only names the field in validation messages.
type optionalDecimal struct {
	Set   bool
	Value *decimal.Decimal `json:"discount" validate:"omitempty,money"`
}

func (o *optionalDecimal) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var value decimal.Decimal
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	o.Value = &value
	return nil
}

type productRequest struct {
	CategoryID  *string          `json:"category_id" validate:"required,uuid"`
	BrandID     *string          `json:"brand_id" validate:"required,uuid"`
	Name        *string          `json:"name" validate:"required,min=3,max=180"`
	IsAvailable *bool            `json:"is_available" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required,money"`
	Amount      *int             `json:"amount" validate:"required,gte=0"`
	Discount    optionalDecimal  `json:"discount"`
	Image       *string          `json:"image" validate:"omitempty,url,max=2048"`
}

type productPatchRequest struct {
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	BrandID     *string          `json:"brand_id" validate:"omitempty,uuid"`
	Name        *string          `json:"name" validate:"omitempty,min=3,max=180"`
	IsAvailable *bool            `json:"is_available"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,money"`
	Amount      *int             `json:"amount" validate:"omitempty,gte=0"`
	Discount    optionalDecimal  `json:"discount"`
	Image       *string          `json:"image" validate:"omitempty,url,max=2048"`
}

func (r productRequest) input() repository.ProductInput {
	return repository.ProductInput{
		CategoryID:    r.CategoryID,
		BrandID:       r.BrandID,
		Name:          r.Name,
		IsAvailable:   r.IsAvailable,
		Price:         r.Price,
		Amount:        r.Amount,
		Discount:      r.Discount.Value,
		ClearDiscount: r.Discount.Set && r.Discount.Value == nil,
		Image:         r.Image,
	}
}

func (r productPatchRequest) input() repository.ProductInput {
	return productRequest(r).input()
}

// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}

	page, err := h.products.List(requestContext(c), q.Page, q.Paginate)
	if err != nil {
		renderFailure(c, h.msg.failed("fetching products"), err)
		return
	}
	renderPage(c, h.msg, page)
}

// GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, found, err := h.products.FindByID(requestContext(c), c.Param("id"))
	if err != nil {
		renderFailure(c, h.msg.failed("fetching product"), err)
		return
	}
	if !found {
		renderNotFound(c, h.msg.notFound())
		return
	}
	response.Success(c, http.StatusOK, h.msg.fetched(), product)
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req productRequest
	if !bindAndValidate(c, &req) {
		return
	}
	input := req.input()
	if !h.referencesExist(c, input) {
		return
	}

	product, err := h.products.Create(requestContext(c), input)
	if err != nil {
		renderFailure(c, h.msg.failed("creating product"), err)
		return
	}
	response.Success(c, http.StatusCreated, h.msg.created(), product)
}

// PUT|PATCH /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	mode := updateMode(c)

	var input repository.ProductInput
	if mode == repository.UpdateFull {
		var req productRequest
		if !bindAndValidate(c, &req) {
			return
		}
		input = req.input()
	} else {
		var req productPatchRequest
		if !bindAndValidate(c, &req) {
			return
		}
		input = req.input()
	}
	if !h.referencesExist(c, input) {
		return
	}

	product, found, err := h.products.Update(requestContext(c), c.Param("id"), input, mode)
	if err != nil {
		renderFailure(c, h.msg.failed("updating product"), err)
		return
	}
	if !found {
		renderNotFound(c, h.msg.notFound())
		return
	}
	response.Success(c, http.StatusOK, h.msg.updated(), product)
}

// DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	_, found, err := h.products.Delete(requestContext(c), c.Param("id"))
	if err != nil {
		renderFailure(c, h.msg.failed("deleting product"), err)
		return
	}
	if !found {
		renderNotFound(c, h.msg.notFound())
		return
	}
	response.Success(c, http.StatusOK, h.msg.deleted(), nil)
}

// referencesExist renders a 422 when the category or brand does not exist.
func (h *ProductHandler) referencesExist(c *gin.Context, input repository.ProductInput) bool {
	ctx := requestContext(c)

	if input.CategoryID != nil {
		_, found, err := h.categories.FindByID(ctx, *input.CategoryID)
		if err != nil {
			renderFailure(c, h.msg.failed("validating the product"), err)
			return false
		}
		if !found {
			rejectField(c, "category_id", "exists", "")
			return false
		}
	}

	if input.BrandID != nil {
		_, found, err := h.brands.FindByID(ctx, *input.BrandID)
		if err != nil {
			renderFailure(c, h.msg.failed("validating the product"), err)
			return false
		}
		if !found {
			rejectField(c, "brand_id", "exists", "")
			return false
		}
	}
	return true
}
