package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/storeadmin/internal/api"
	"github.com/charlesng35/storeadmin/internal/app"
	iauth "github.com/charlesng35/storeadmin/internal/auth"
	"github.com/charlesng35/storeadmin/internal/cache"
	sharedtestutil "github.com/charlesng35/storeadmin/internal/database/testutil"
	"github.com/charlesng35/storeadmin/internal/images"
	"github.com/charlesng35/storeadmin/internal/models"
	"github.com/charlesng35/storeadmin/pkg/response"
)

// BaseURL prefixes image URLs produced by the test environment.
const BaseURL = "http://storeadmin.test"

// Env encapsulates a fully-wired API instance backed by an in-memory database for handler tests.
type Env struct {
	T         *testing.T
	DB        *gorm.DB
	Router    *gin.Engine
	Store     *cache.MemoryStore
	Tokens    *iauth.TokenService
	ImageRoot string
}

// NewEnv provisions a fresh handler test environment with migrations applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithAutoMigrate())
	store := cache.NewMemoryStore()
	root := t.TempDir()

	cfg := &app.Config{
		Server: app.ServerConfig{
			BaseURL:   BaseURL,
			RateLimit: app.RateLimitConfig{Requests: 1000, Window: time.Minute},
		},
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: "test-suite-super-secret-key-32-bytes!!",
				Issuer: "test-suite",
				TTL:    time.Hour,
			},
		},
		Storage: app.StorageConfig{
			Images: app.ImageStorageConfig{Root: root},
		},
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	require.NoError(t, err)

	tokens, err := iauth.NewTokenService(db, jwtSvc, iauth.TokenConfig{Cache: iauth.NewTokenCache(store)})
	require.NoError(t, err)

	imageStore, err := images.NewLocalStore(cfg.ImageStoreConfig())
	require.NoError(t, err)

	router, err := api.NewRouter(api.Dependencies{
		DB:     db,
		Config: cfg,
		Tokens: tokens,
		Store:  store,
		Images: imageStore,
	})
	require.NoError(t, err)

	return &Env{
		T:         t,
		DB:        db,
		Router:    router,
		Store:     store,
		Tokens:    tokens,
		ImageRoot: root,
	}
}

// LoginResult bundles the data payload of POST /api/v1/auth/login.
type LoginResult struct {
	Token               string                      `json:"token"`
	TokenType           string                      `json:"token_type"`
	ExpiresIn           int64                       `json:"expires_in"`
	User                models.User                 `json:"user"`
	PersonalAccessToken *models.PersonalAccessToken `json:"personal_access_token"`
}

// Register creates an account through the API and returns the stored user.
func (e *Env) Register(name, email, password string) models.User {
	e.T.Helper()

	w := e.Request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": password,
	}, "")
	require.Equal(e.T, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		User models.User `json:"user"`
	}
	DecodeInto(e.T, DecodeResponse(e.T, w).Data, &data)
	require.NotEmpty(e.T, data.User.ID)
	return data.User
}

// Login authenticates and returns the issued bearer token.
func (e *Env) Login(email, password string) LoginResult {
	e.T.Helper()

	w := e.Request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())

	resp := DecodeResponse(e.T, w)
	require.True(e.T, resp.Status, w.Body.String())

	var result LoginResult
	DecodeInto(e.T, resp.Data, &result)
	require.NotEmpty(e.T, result.Token)
	require.Equal(e.T, models.BearerTokenType, result.TokenType)
	return result
}

// Authenticate registers a fresh user and returns a valid bearer token for it.
func (e *Env) Authenticate() (models.User, string) {
	e.T.Helper()

	email := "admin-" + uuid.NewString()[:8] + "@example.com"
	user := e.Register("Store Admin", email, "secret123")
	return user, e.Login(email, "secret123").Token
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *response.Meta  `json:"meta"`
}

// ErrorData decodes the data of a failed response.
type ErrorData struct {
	Code   string              `json:"code"`
	Errors map[string][]string `json:"errors"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest), string(raw))
}

// DecodeErrors returns the field failures of a 422 response.
func DecodeErrors(t *testing.T, w *httptest.ResponseRecorder) map[string][]string {
	t.Helper()
	var data ErrorData
	DecodeInto(t, DecodeResponse(t, w).Data, &data)
	return data.Errors
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(e.T, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.serve(req, token)
}

// File is a multipart file part.
type File struct {
	Field    string
	Filename string
	Content  []byte
}

// Multipart sends a multipart/form-data request with the given fields and files.
func (e *Env) Multipart(method, path string, fields map[string]string, files []File, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(e.T, writer.WriteField(key, value))
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.Field, file.Filename)
		require.NoError(e.T, err)
		_, err = part.Write(file.Content)
		require.NoError(e.T, err)
	}
	require.NoError(e.T, writer.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return e.serve(req, token)
}

func (e *Env) serve(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// PNG is a valid 1x1 transparent PNG image.
var PNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}
