package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/storeadmin/pkg/errors"
	"github.com/charlesng35/storeadmin/pkg/response"
	appValidator "github.com/charlesng35/storeadmin/pkg/validator"
)

// bindAndValidate binds the JSON payload into dest and runs struct validation rules.
// When validation fails, an error response is automatically written and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}
	return validate(c, dest)
}

// validate runs struct validation and renders a 422 envelope with the field failures.
func validate(c *gin.Context, dest any) bool {
	err := appValidator.ValidateStruct(dest)
	if err == nil {
		return true
	}

	var failures appValidator.ValidationErrors
	if errors.As(err, &failures) {
		response.Error(c, appErrors.NewValidation(failures.Messages()))
		return false
	}

	response.Error(c, appErrors.NewBadRequest("invalid request payload"))
	return false
}

// rejectField renders a 422 envelope for a single failed rule.
func rejectField(c *gin.Context, field, tag, param string) {
	failures := appValidator.ValidationErrors{{Field: field, Tag: tag, Param: param}}
	response.Error(c, appErrors.NewValidation(failures.Messages()))
}

type listQuery struct {
	Page     int `form:"page,default=1" validate:"gte=1"`
	Paginate int `form:"paginate,default=10" validate:"gte=0,lte=100"`
}

func bindListQuery(c *gin.Context) (listQuery, bool) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.NewBadRequest("page and paginate must be integers"))
		return q, false
	}
	if !validate(c, &q) {
		return q, false
	}
	return q, true
}
