package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/storeadmin/internal/auth"
	"github.com/charlesng35/storeadmin/internal/models"
	appErrors "github.com/charlesng35/storeadmin/pkg/errors"
	"github.com/charlesng35/storeadmin/pkg/metrics"
	"github.com/charlesng35/storeadmin/pkg/response"
)

// AuthHandler manages authentication flows (register/login/refresh/logout/me/revoke).
type AuthHandler struct {
	accounts *iauth.AccountService
	tokens   *iauth.TokenService
	limiter  *iauth.LoginLimiter
}

func NewAuthHandler(accounts *iauth.AccountService, tokens *iauth.TokenService, limiter *iauth.LoginLimiter) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens, limiter: limiter}
}

type registerRequest struct {
	Name                 string `json:"name" validate:"required,min=2,max=100"`
	Email                string `json:"email" validate:"required,email,max=100"`
	Password             string `json:"password" validate:"required,min=6"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,min=5,max=50"`
	Password string `json:"password" validate:"required,min=6,max=50"`
}

type revokeTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type tokenResponse struct {
	Token               string                      `json:"token"`
	TokenType           string                      `json:"token_type"`
	ExpiresIn           int64                       `json:"expires_in"`
	User                *models.User                `json:"user,omitempty"`
	PersonalAccessToken *models.PersonalAccessToken `json:"personal_access_token"`
}

func newTokenResponse(issued *iauth.IssuedToken, user *models.User) tokenResponse {
	return tokenResponse{
		Token:               issued.Token,
		TokenType:           issued.TokenType,
		ExpiresIn:           issued.ExpiresIn,
		User:                user,
		PersonalAccessToken: issued.Record,
	}
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := requestContext(c)
	taken, err := h.accounts.EmailTaken(ctx, req.Email)
	if err != nil {
		renderFailure(c, "An error occurred while registering. Please try again later.", err)
		return
	}
	if taken {
		rejectField(c, "email", "unique", "")
		return
	}

	user, err := h.accounts.Register(ctx, iauth.RegisterInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if errors.Is(err, iauth.ErrEmailTaken) {
		rejectField(c, "email", "unique", "")
		return
	}
	if err != nil {
		renderFailure(c, "An error occurred while registering. Please try again later.", err)
		return
	}

	response.Success(c, http.StatusCreated, "User successfully registered", gin.H{"user": user})
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ctx := requestContext(c)
	if throttled, retryIn := h.limiter.Hit(ctx, req.Email); throttled {
		metrics.AuthAttempts.WithLabelValues("throttled").Inc()
		c.Header("Retry-After", strconv.Itoa(int(retryIn.Seconds())+1))
		response.Error(c, appErrors.ErrTooManyLoginAttempts)
		return
	}

	user, err := h.accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		if errors.Is(err, iauth.ErrInvalidCredentials) {
			response.Error(c, appErrors.ErrInvalidCredentials)
			return
		}
		renderFailure(c, "An error occurred while login. Please try again later.", err)
		return
	}

	issued, err := h.tokens.Issue(ctx, user.ID, models.LoginTokenName, nil)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		renderFailure(c, "An error occurred while login. Please try again later.", err)
		return
	}

	h.limiter.Reset(ctx, req.Email)
	metrics.AuthAttempts.WithLabelValues("success").Inc()
	response.Success(c, http.StatusOK, "User successfully logged in", newTokenResponse(issued, user))
}

// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	issued, err := h.tokens.Refresh(requestContext(c), currentRawToken(c))
	if err != nil {
		if isTokenRejection(err) {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		renderFailure(c, "An error occurred while refreshing the token. Please try again later.", err)
		return
	}
	response.Success(c, http.StatusOK, "Token successfully refreshed", newTokenResponse(issued, nil))
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID := currentTokenID(c)
	if tokenID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.tokens.Revoke(requestContext(c), tokenID); err != nil {
		if isTokenRejection(err) {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		renderFailure(c, "An error occurred while logging out. Please try again later.", err)
		return
	}
	response.Success(c, http.StatusOK, "Successfully logged out", nil)
}

// GET|POST /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	user, err := h.accounts.FindUser(requestContext(c), userID)
	if errors.Is(err, iauth.ErrUserNotFound) {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err != nil {
		renderFailure(c, "An error occurred while fetching the user. Please try again later.", err)
		return
	}
	response.Success(c, http.StatusOK, "User successfully fetched", user)
}

// POST /api/v1/auth/tokens/revoke
func (h *AuthHandler) RevokeToken(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req revokeTokenRequest
	if !bindAndValidate(c, &req) {
		return
	}

	err := h.tokens.RevokeByValue(requestContext(c), userID, req.Token)
	if errors.Is(err, iauth.ErrTokenNotFound) {
		renderNotFound(c, "Token not found")
		return
	}
	if err != nil {
		renderFailure(c, "An error occurred while revoking the token. Please try again later.", err)
		return
	}
	response.Success(c, http.StatusOK, "Token revoked successfully", nil)
}

func isTokenRejection(err error) bool {
	return errors.Is(err, iauth.ErrTokenNotFound) ||
		errors.Is(err, iauth.ErrTokenRevoked) ||
		errors.Is(err, iauth.ErrTokenExpired) ||
		errors.Is(err, iauth.ErrTokenInvalid)
}
