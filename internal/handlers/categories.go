package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/storeadmin/internal/images"
	"github.com/charlesng35/storeadmin/internal/models"
	"github.com/charlesng35/storeadmin/internal/repository"
	appErrors "github.com/charlesng35/storeadmin/pkg/errors"
	"github.com/charlesng35/storeadmin/pkg/logger"
	"github.com/charlesng35/storeadmin/pkg/response"
	appValidator "github.com/charlesng35/storeadmin/pkg/validator"
)

// DefaultCategoryImageDir is where category images are stored below the image root.
const DefaultCategoryImageDir = "assets/uploads/categories"

// CategoryHandler exposes CRUD endpoints for categories. Payloads are
// multipart forms carrying a name and an image file.
type CategoryHandler struct {
	categories repository.Repository[models.Category, repository.CategoryInput]
	images     images.Store
	policy     images.Policy
	dir        string
	msg        resourceMessages
}

func NewCategoryHandler(categories repository.Repository[models.Category, repository.CategoryInput], store images.Store, policy images.Policy, dir string) *CategoryHandler {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultCategoryImageDir
	}
	return &CategoryHandler{
		categories: categories,
		images:     store,
		policy:     policy,
		dir:        dir,
		msg:        newResourceMessages("category", "categories"),
	}
}

type categoryForm struct {
	Name *string `form:"name" validate:"required,min=3,max=50"`
}

type categoryPatchForm struct {
	Name *string `form:"name" validate:"omitempty,min=3,max=50"`
}

// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	q, ok := bindListQuery(c)
	if !ok {
		return
	}

	page, err := h.categories.List(requestContext(c), q.Page, q.Paginate)
	if err != nil {
		renderFailure(c, h.msg.failed("fetching categories"), err)
		return
	}
	renderPage(c, h.msg, page)
}

// GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	category, found, err := h.categories.FindByID(requestContext(c), c.Param("id"))
	if err != nil {
		renderFailure(c, h.msg.failed("fetching category"), err)
		return
	}
	if !found {
		renderNotFound(c, h.msg.notFound())
		return
	}
	response.Success(c, http.StatusOK, h.msg.fetched(), category)
}

// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var form categoryForm
	image, ok := h.bindForm(c, &form, true)
	if !ok || h.nameTaken(c, form.Name, "") {
		return
	}

	ctx := requestContext(c)
	url, err := h.upload(ctx, image, "")
	if err != nil {
		renderFailure(c, h.msg.failed("storing the category image"), err)
		return
	}

	category, err := h.categories.Create(ctx, repository.CategoryInput{Name: form.Name, Image: &url})
	if err != nil {
		h.discard(ctx, url)
		renderFailure(c, h.msg.failed("creating category"), err)
		return
	}
	response.Success(c, http.StatusCreated, h.msg.created(), category)
}

// PUT|PATCH /api/v1/categories/:id
//
// A supplied image replaces the stored one. A full update without an image
// keeps the current image.
func (h *CategoryHandler) Update(c *gin.Context) {
	id := c.Param("id")
	mode := updateMode(c)

	var (
		name  *string
		image *multipart.FileHeader
		ok    bool
	)
	if mode == repository.UpdateFull {
		var form categoryForm
		image, ok = h.bindForm(c, &form, false)
		name = form.Name
	} else {
		var form categoryPatchForm
		image, ok = h.bindForm(c, &form, false)
		name = form.Name
	}
	if !ok || h.nameTaken(c, name, id) {
		return
	}

	ctx := requestContext(c)
	current, found, err := h.categories.FindByID(ctx, id)
	if err != nil {
		renderFailure(c, h.msg.failed("updating category"), err)
		return
	}
	if !found {
		renderNotFound(c, h.msg.notFound())
		return
	}

	input := repository.CategoryInput{Name: name}
	uploaded := ""
	if image != nil {
		uploaded, err = h.upload(ctx, image, current.Image)
		if err != nil {
			renderFailure(c, h.msg.failed("storing the category image"), err)
			return
		}
		input.Image = &uploaded
	} else if mode == repository.UpdateFull {
		input.Image = &current.Image
	}

	category, found, err := h.categories.Update(ctx, id, input, mode)
	if err != nil || !found {
		if uploaded != "" {
			h.discard(ctx, uploaded)
		}
		if err != nil {
			renderFailure(c, h.msg.failed("updating category"), err)
		} else {
			renderNotFound(c, h.msg.notFound())
		}
		return
	}
	response.Success(c, http.StatusOK, h.msg.updated(), category)
}

// DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	_, found, err := h.categories.Delete(requestContext(c), c.Param("id"))
	if err != nil {
		renderFailure(c, h.msg.failed("deleting category"), err)
		return
	}
	if !found {
		renderNotFound(c, h.msg.notFound())
		return
	}
	response.Success(c, http.StatusOK, h.msg.deleted(), nil)
}

// bindForm binds the multipart fields into form and checks the image file.
// Field failures of both are rendered together.
func (h *CategoryHandler) bindForm(c *gin.Context, form any, imageRequired bool) (*multipart.FileHeader, bool) {
	if err := c.ShouldBind(form); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid form payload"))
		return nil, false
	}

	var failures appValidator.ValidationErrors
	if err := appValidator.ValidateStruct(form); err != nil {
		if !errors.As(err, &failures) {
			response.Error(c, appErrors.NewBadRequest("invalid request payload"))
			return nil, false
		}
	}

	image, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart):
		image = nil
		if imageRequired {
			failures = append(failures, appValidator.ValidationError{Field: "image", Tag: "required"})
		}
	case err != nil:
		response.Error(c, appErrors.NewBadRequest("invalid image upload"))
		return nil, false
	default:
		if failure, rejected := h.checkImage(image); rejected {
			failures = append(failures, failure)
		}
	}

	if len(failures) > 0 {
		response.Error(c, appErrors.NewValidation(failures.Messages()))
		return nil, false
	}
	return image, true
}

func (h *CategoryHandler) checkImage(image *multipart.FileHeader) (appValidator.ValidationError, bool) {
	err := h.policy.Validate(image)
	switch {
	case err == nil:
		return appValidator.ValidationError{}, false
	case errors.Is(err, images.ErrTooLarge):
		maxSize := h.policy.MaxSize
		if maxSize <= 0 {
			maxSize = images.DefaultMaxSize
		}
		return appValidator.ValidationError{Field: "image", Tag: "file_max", Param: strconv.FormatInt(maxSize>>10, 10)}, true
	default:
		allowed := h.policy.Extensions
		if len(allowed) == 0 {
			allowed = images.DefaultPolicy().Extensions
		}
		return appValidator.ValidationError{Field: "image", Tag: "mimes", Param: strings.Join(allowed, ", ")}, true
	}
}

// upload stores image, replacing previous when one is given.
func (h *CategoryHandler) upload(ctx context.Context, image *multipart.FileHeader, previous string) (string, error) {
	file, err := image.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	if previous != "" {
		return h.images.Replace(ctx, h.dir, image.Filename, file, previous)
	}
	return h.images.Upload(ctx, h.dir, image.Filename, file)
}

func (h *CategoryHandler) discard(ctx context.Context, url string) {
	if err := h.images.Delete(ctx, url); err != nil {
		logger.WithModule("handlers").Warn("failed to discard uploaded image", zap.String("image", url), zap.Error(err))
	}
}

func (h *CategoryHandler) nameTaken(c *gin.Context, name *string, excludeID string) bool {
	return nameTaken(c, func(name, excludeID string) (bool, error) {
		return h.categories.NameTaken(requestContext(c), name, excludeID)
	}, name, excludeID, h.msg)
}
