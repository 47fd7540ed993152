package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/storeadmin/internal/repository"
	appErrors "github.com/charlesng35/storeadmin/pkg/errors"
	"github.com/charlesng35/storeadmin/pkg/logger"
	"github.com/charlesng35/storeadmin/pkg/response"
)

// resourceMessages builds the envelope messages of one resource.
type resourceMessages struct {
	singular string
	plural   string
}

func newResourceMessages(singular, plural string) resourceMessages {
	return resourceMessages{singular: singular, plural: plural}
}

func (m resourceMessages) listed() string { return capitalise(m.plural) + " successfully fetched" }
func (m resourceMessages) fetched() string { return capitalise(m.singular) + " successfully fetched" }
func (m resourceMessages) created() string { return capitalise(m.singular) + " created successfully!" }
func (m resourceMessages) updated() string { return capitalise(m.singular) + " updated successfully!" }
func (m resourceMessages) deleted() string { return capitalise(m.singular) + " deleted successfully!" }
func (m resourceMessages) empty() string { return "No " + m.plural + " available" }
func (m resourceMessages) notFound() string { return "No " + m.singular + " found with the provided ID" }
func (m resourceMessages) failed(action string) string {
	return fmt.Sprintf("An error occurred while %s. Please try again later.", action)
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// updateMode maps PATCH to a partial update and PUT to a full one.
func updateMode(c *gin.Context) repository.UpdateMode {
	if c.Request.Method == http.MethodPatch {
		return repository.UpdatePartial
	}
	return repository.UpdateFull
}

func renderNotFound(c *gin.Context, message string) {
	response.Error(c, appErrors.ErrNotFound.WithMessage(message))
}

// renderFailure logs err and renders a 500 envelope carrying message.
func renderFailure(c *gin.Context, message string, err error) {
	logger.WithModule("handlers").Error(message,
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	response.Error(c, appErrors.ErrInternalServer.WithMessage(message).WithInternal(err))
}

// renderPage writes a listing envelope, or a 404 when the page holds nothing.
func renderPage[T any](c *gin.Context, msg resourceMessages, page repository.Page[T]) {
	if len(page.Items) == 0 {
		renderNotFound(c, msg.empty())
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, msg.listed(), page.Items,
		response.NewMeta(page.Page, page.PageSize, page.Total))
}

// nameTaken renders a 422 and returns true when name is already used by another record.
func nameTaken(c *gin.Context, taken func(name, excludeID string) (bool, error), name *string, excludeID string, msg resourceMessages) bool {
	if name == nil {
		return false
	}
	exists, err := taken(*name, excludeID)
	if err != nil {
		renderFailure(c, msg.failed("validating the "+msg.singular), err)
		return true
	}
	if exists {
		rejectField(c, "name", "unique", "")
		return true
	}
	return false
}
