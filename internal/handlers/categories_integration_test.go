package handlers_test

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/storeadmin/internal/handlers/testutil"
	"github.com/charlesng35/storeadmin/internal/models"
)

func pngFile(name string) []testutil.File {
	return []testutil.File{{Field: "image", Filename: name, Content: testutil.PNG}}
}

func createCategory(t *testing.T, env *testutil.Env, token, name string) models.Category {
	t.Helper()

	w := env.Multipart(http.MethodPost, "/api/v1/categories", map[string]string{"name": name}, pngFile("shoes.png"), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	require.Equal(t, "Category created successfully!", resp.Message)

	var category models.Category
	testutil.DecodeInto(t, resp.Data, &category)
	return category
}

// imagePath maps a public image URL to its location below the env image root.
func imagePath(env *testutil.Env, url string) string {
	rel := strings.TrimPrefix(url, testutil.BaseURL+"/")
	return filepath.Join(env.ImageRoot, filepath.FromSlash(rel))
}

func TestCategoryHandler_CreateStoresImage(t *testing.T) {
	env := testutil.NewEnv(t)
	_, token := env.Authenticate()

	category := createCategory(t, env, token, "Shoes")
	require.Equal(t, "Shoes", category.Name)
	require.True(t, strings.HasPrefix(category.Image, testutil.BaseURL+"/assets/uploads/categories/"), category.Image)
	require.True(t, strings.HasSuffix(category.Image, ".png"))

	stored, err := os.ReadFile(imagePath(env, category.Image))
	require.NoError(t, err)
	require.True(t, bytes.Equal(testutil.PNG, stored))

	served := env.Request(http.MethodGet, strings.TrimPrefix(category.Image, testutil.BaseURL), nil, "")
	require.Equal(t, http.StatusOK, served.Code)

	list := env.Request(http.MethodGet, "/api/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, list.Code)
	require.Equal(t, "Categories successfully fetched", testutil.DecodeResponse(t, list).Message)
}

func TestCategoryHandler_CreateValidation(t *testing.T) {
	env := testutil.NewEnv(t)
	_, token := env.Authenticate()

	missing := env.Multipart(http.MethodPost, "/api/v1/categories", map[string]string{}, nil, token)
	require.Equal(t, http.StatusUnprocessableEntity, missing.Code, missing.Body.String())
	errs := testutil.DecodeErrors(t, missing)
	require.Equal(t, []string{"The name field is required."}, errs["name"])
	require.Equal(t, []string{"The image field is required."}, errs["image"])

	text := []testutil.File{{Field: "image", Filename: "notes.png", Content: []byte("plain text pretending to be a picture")}}
	wrongType := env.Multipart(http.MethodPost, "/api/v1/categories", map[string]string{"name": "Shoes"}, text, token)
	require.Equal(t, http.StatusUnprocessableEntity, wrongType.Code)
	require.Equal(t, []string{"The image must be a file of type: jpeg, png, jpg, gif."}, testutil.DecodeErrors(t, wrongType)["image"])

	pdf := []testutil.File{{Field: "image", Filename: "doc.pdf", Content: testutil.PNG}}
	wrongExt := env.Multipart(http.MethodPost, "/api/v1/categories", map[string]string{"name": "Shoes"}, pdf, token)
	require.Equal(t, http.StatusUnprocessableEntity, wrongExt.Code)

	huge := append(append([]byte{}, testutil.PNG...), make([]byte, 2<<20)...)
	tooLarge := env.Multipart(http.MethodPost, "/api/v1/categories", map[string]string{"name": "Shoes"},
		[]testutil.File{{Field: "image", Filename: "big.png", Content: huge}}, token)
	require.Equal(t, http.StatusUnprocessableEntity, tooLarge.Code)
	require.Equal(t, []string{"The image may not be greater than 2048 kilobytes."}, testutil.DecodeErrors(t, tooLarge)["image"])

	createCategory(t, env, token, "Shoes")
	dup := env.Multipart(http.MethodPost, "/api/v1/categories", map[string]string{"name": "SHOES"}, pngFile("x.png"), token)
	require.Equal(t, http.StatusUnprocessableEntity, dup.Code)
	require.Equal(t, []string{"The name has already been taken."}, testutil.DecodeErrors(t, dup)["name"])
}

func TestCategoryHandler_UpdateReplacesImage(t *testing.T) {
	env := testutil.NewEnv(t)
	_, token := env.Authenticate()
	category := createCategory(t, env, token, "Shoes")

	w := env.Multipart(http.MethodPatch, "/api/v1/categories/"+category.ID, nil, pngFile("new.png"), token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Category
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &updated)
	require.Equal(t, "Shoes", updated.Name)
	require.NotEqual(t, category.Image, updated.Image)

	_, err := os.Stat(imagePath(env, category.Image))
	require.True(t, os.IsNotExist(err), "previous image should be removed")
	_, err = os.Stat(imagePath(env, updated.Image))
	require.NoError(t, err)
}

func TestCategoryHandler_PutWithoutImageKeepsCurrent(t *testing.T) {
	env := testutil.NewEnv(t)
	_, token := env.Authenticate()
	category := createCategory(t, env, token, "Shoes")

	noName := env.Multipart(http.MethodPut, "/api/v1/categories/"+category.ID, map[string]string{}, nil, token)
	require.Equal(t, http.StatusUnprocessableEntity, noName.Code)

	w := env.Multipart(http.MethodPut, "/api/v1/categories/"+category.ID, map[string]string{"name": "Sneakers"}, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Category
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &updated)
	require.Equal(t, "Sneakers", updated.Name)
	require.Equal(t, category.Image, updated.Image)
}

func TestCategoryHandler_DeleteRemovesImage(t *testing.T) {
	env := testutil.NewEnv(t)
	_, token := env.Authenticate()
	category := createCategory(t, env, token, "Shoes")

	w := env.Request(http.MethodDelete, "/api/v1/categories/"+category.ID, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "Category deleted successfully!", testutil.DecodeResponse(t, w).Message)

	_, err := os.Stat(imagePath(env, category.Image))
	require.True(t, os.IsNotExist(err))

	gone := env.Request(http.MethodGet, "/api/v1/categories/"+category.ID, nil, "")
	require.Equal(t, http.StatusNotFound, gone.Code)
	require.Equal(t, "No category found with the provided ID", testutil.DecodeResponse(t, gone).Message)
}

func TestCategoryHandler_UpdateMissing(t *testing.T) {
	env := testutil.NewEnv(t)
	_, token := env.Authenticate()

	w := env.Multipart(http.MethodPatch, "/api/v1/categories/00000000-0000-0000-0000-000000000000", map[string]string{"name": "Shoes"}, pngFile("a.png"), token)
	require.Equal(t, http.StatusNotFound, w.Code)

	entries, err := os.ReadDir(filepath.Join(env.ImageRoot, "assets", "uploads", "categories"))
	if err == nil {
		require.Empty(t, entries, "no image should be stored for a missing category")
	}
}
