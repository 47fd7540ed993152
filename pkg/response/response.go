package response

import (
	"net/http"

	appErrors "github.com/charlesng35/storeadmin/pkg/errors"
	"github.com/gin-gonic/gin"
)

// Response defines the envelope every endpoint answers with.
type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// ErrorData is placed in Data for failed requests.
type ErrorData struct {
	Code   string `json:"code"`
	Errors any    `json:"errors,omitempty"`
}

// Meta describes pagination metadata.
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewMeta derives page counts. A perPage of zero means the listing was not paginated.
func NewMeta(page, perPage int, total int64) *Meta {
	meta := &Meta{Page: page, PerPage: perPage, Total: total}
	switch {
	case perPage > 0:
		meta.TotalPages = int((total + int64(perPage) - 1) / int64(perPage))
	case total > 0:
		meta.TotalPages = 1
	}
	return meta
}

// Success writes a JSON success response.
func Success(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, Response{
		Status:  true,
		Message: message,
		Data:    orEmpty(data),
	})
}

// SuccessWithMeta writes a JSON success response including metadata.
func SuccessWithMeta(c *gin.Context, statusCode int, message string, data any, meta *Meta) {
	c.JSON(statusCode, Response{
		Status:  true,
		Message: message,
		Data:    orEmpty(data),
		Meta:    meta,
	})
}

// Error writes a JSON error response derived from an AppError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, Response{
		Status:  false,
		Message: appErr.Message,
		Data: ErrorData{
			Code:   appErr.Code,
			Errors: appErr.Details,
		},
	})
}

func orEmpty(data any) any {
	if data == nil {
		return gin.H{}
	}
	return data
}
