package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	appErrors "github.com/charlesng35/storeadmin/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *Meta           `json:"meta"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var out envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Success(ctx, http.StatusCreated, "Brand created successfully!", gin.H{"name": "Nike"})

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode(t, rec)
	require.True(t, resp.Status)
	require.Equal(t, "Brand created successfully!", resp.Message)
	require.JSONEq(t, `{"name":"Nike"}`, string(resp.Data))
	require.Nil(t, resp.Meta)
}

func TestSuccessWithoutDataRendersEmptyObject(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Success(ctx, http.StatusOK, "Successfully logged out", nil)

	resp := decode(t, rec)
	require.JSONEq(t, `{}`, string(resp.Data))
}

func TestSuccessWithMeta(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	SuccessWithMeta(ctx, http.StatusOK, "Brands successfully fetched", []string{"a", "b"}, NewMeta(1, 10, 20))

	resp := decode(t, rec)
	require.NotNil(t, resp.Meta)
	require.EqualValues(t, 20, resp.Meta.Total)
	require.Equal(t, 2, resp.Meta.TotalPages)
}

func TestNewMeta(t *testing.T) {
	require.Equal(t, 3, NewMeta(1, 10, 21).TotalPages)
	require.Equal(t, 0, NewMeta(1, 10, 0).TotalPages)
	require.Equal(t, 1, NewMeta(1, 0, 7).TotalPages)
	require.Equal(t, 0, NewMeta(1, 0, 0).TotalPages)
}

func TestErrorWithAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Error(ctx, appErrors.ErrNotFound.WithMessage("No brand found with the provided ID"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode(t, rec)
	require.False(t, resp.Status)
	require.Equal(t, "No brand found with the provided ID", resp.Message)

	var data ErrorData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.Equal(t, appErrors.ErrNotFound.Code, data.Code)
}

func TestErrorWithValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Error(ctx, appErrors.NewValidation(map[string][]string{"name": {"The name field is required."}}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode(t, rec)
	require.Equal(t, "Validation failed.", resp.Message)
	require.JSONEq(t, `{"code":"VALIDATION_FAILED","errors":{"name":["The name field is required."]}}`, string(resp.Data))
}

func TestErrorWithGenericError(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	Error(ctx, errors.New("boom"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode(t, rec)
	require.Equal(t, "Internal server error", resp.Message)
}
