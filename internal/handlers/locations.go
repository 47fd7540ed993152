package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/storeadmin/internal/repository"
	appErrors "github.com/charlesng35/storeadmin/pkg/errors"
	"github.com/charlesng35/storeadmin/pkg/response"
)

// LocationHandler exposes the delivery locations of the authenticated user.
type LocationHandler struct {
	locations *repository.LocationRepository
	msg       resourceMessages
}

func NewLocationHandler(locations *repository.LocationRepository) *LocationHandler {
	return &LocationHandler{locations: locations, msg: newResourceMessages("location", "locations")}
}

type locationRequest struct {
	Area     *string `json:"area" validate:"required,min=3,max=80"`
	Street   *string `json:"street" validate:"required,min=3,max=150"`
	Building *string `json:"building" validate:"required,min=3,max=50"`
}

type locationPatchRequest struct {
	Area     *string `json:"area" validate:"omitempty,min=3,max=80"`
	Street   *string `json:"street" validate:"omitempty,min=3,max=150"`
	Building *string `json:"building" validate:"omitempty,min=3,max=50"`
}

// GET /api/v1/locations
func (h *LocationHandler) List(c *gin.Context) {
	userID, ok := h.owner(c)
	if !ok {
		return
	}

	locations, err := h.locations.List(requestContext(c), userID)
	if err != nil {
		renderFailure(c, h.msg.failed("fetching locations"), err)
		return
	}
	if len(locations) == 0 {
		renderNotFound(c, h.msg.empty())
		return
	}
	response.Success(c, http.StatusOK, h.msg.listed(), locations)
}

// GET /api/v1/locations/:id
func (h *LocationHandler) Get(c *gin.Context) {
	userID, ok := h.owner(c)
	if !ok {
		return
	}

	location, found, err := h.locations.FindByID(requestContext(c), userID, c.Param("id"))
	if err != nil {
		renderFailure(c, h.msg.failed("fetching location"), err)
		return
	}
	if !found {
		renderNotFound(c, h.msg.notFound())
		return
	}
	response.Success(c, http.StatusOK, h.msg.fetched(), location)
}

// POST /api/v1/locations
func (h *LocationHandler) Create(c *gin.Context) {
	userID, ok := h.owner(c)
	if !ok {
		return
	}

	var req locationRequest
	if !bindAndValidate(c, &req) {
		return
	}

	location, err := h.locations.Create(requestContext(c), userID, repository.LocationInput{
		Area:     req.Area,
		Street:   req.Street,
		Building: req.Building,
	})
	if err != nil {
		renderFailure(c, h.msg.failed("creating location"), err)
		return
	}
	response.Success(c, http.StatusCreated, h.msg.created(), location)
}

// PUT|PATCH /api/v1/locations/:id
func (h *LocationHandler) Update(c *gin.Context) {
	userID, ok := h.owner(c)
	if !ok {
		return
	}
	mode := updateMode(c)

	var input repository.LocationInput
	if mode == repository.UpdateFull {
		var req locationRequest
		if !bindAndValidate(c, &req) {
			return
		}
		input = repository.LocationInput(req)
	} else {
		var req locationPatchRequest
		if !bindAndValidate(c, &req) {
			return
		}
		input = repository.LocationInput(req)
	}

	location, found, err := h.locations.Update(requestContext(c), userID, c.Param("id"), input, mode)
	if err != nil {
		renderFailure(c, h.msg.failed("updating location"), err)
		return
	}
	if !found {
		renderNotFound(c, h.msg.notFound())
		return
	}
	response.Success(c, http.StatusOK, h.msg.updated(), location)
}

// DELETE /api/v1/locations/:id
func (h *LocationHandler) Delete(c *gin.Context) {
	userID, ok := h.owner(c)
	if !ok {
		return
	}

	_, found, err := h.locations.Delete(requestContext(c), userID, c.Param("id"))
	if err != nil {
		renderFailure(c, h.msg.failed("deleting location"), err)
		return
	}
	if !found {
		renderNotFound(c, h.msg.notFound())
		return
	}
	response.Success(c, http.StatusOK, h.msg.deleted(), nil)
}

func (h *LocationHandler) owner(c *gin.Context) (string, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
	}
	return userID, ok
}
