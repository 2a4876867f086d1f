package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/application"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
	"github.com/oksasatya/go-learning-platform/pkg/helpers"
	"github.com/oksasatya/go-learning-platform/pkg/response"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, cookies *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Cookies: cookies, Logger: logger}
}

type stepOneRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,role"`
}

type stepTwoRequest struct {
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type googleRequest struct {
	Credential string `json:"credential" binding:"required"`
}

type googleRegisterRequest struct {
	Credential string `json:"credential" binding:"required"`
	Role       string `json:"role" binding:"required,role"`
}

type forgotRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

type resetRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password" binding:"required,pwd"`
}

type roleURI struct {
	Role string `uri:"role" binding:"required,oneof=student tutor admin"`
}

// signedIn sets the role's refresh cookie and writes {message, user, accessToken}.
func (h *AuthHandler) signedIn(c *gin.Context, status int, message string, res *application.AuthResult) {
	h.Cookies.SetRefresh(c, res.Role.CookieName(), res.Tokens.RefreshToken, res.Tokens.RefreshTokenExpiry)
	response.With(c, status, message, gin.H{"user": res.User, "accessToken": res.Tokens.AccessToken})
}

// SignupStepOne POST /api/register/stepone
func (h *AuthHandler) SignupStepOne(c *gin.Context) {
	var req stepOneRequest
	if !bindJSON(c, &req) {
		return
	}
	ticket, err := h.Svc.SignupStepOne(c.Request.Context(), application.PendingSignup{
		Username: req.Username,
		Email:    req.Email,
		Role:     entity.Role(req.Role),
	}, requestMeta(c))
	if err != nil {
		fail(c, h.Logger, "signup step one failed", err)
		return
	}
	response.Success(c, http.StatusOK, "otp sent sucessfully", "uId", ticket)
}

// SignupStepTwo POST /api/register/steptwo/:id (behind OTPGate)
// Username, email and role come from the verified ticket; only the password is read from the body.
func (h *AuthHandler) SignupStepTwo(c *gin.Context) {
	var req stepTwoRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, err)
		return
	}
	pending, err := middleware.OTPPayload[application.PendingSignup](c)
	if err != nil {
		response.Internal(c, h.Logger, "signup ticket decode failed", err)
		return
	}
	res, err := h.Svc.SignupStepTwo(c.Request.Context(), *pending, req.Password, requestMeta(c))
	if err != nil {
		fail(c, h.Logger, "signup step two failed", err)
		return
	}
	h.signedIn(c, http.StatusCreated, "Registration successfull", res)
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Identifier, req.Password, requestMeta(c))
	if err != nil {
		fail(c, h.Logger, "login failed", err)
		return
	}
	h.signedIn(c, http.StatusOK, "Login successful", res)
}

// GoogleLogin POST /api/google/login
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req googleRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.GoogleLogin(c.Request.Context(), req.Credential, requestMeta(c))
	if err != nil {
		fail(c, h.Logger, "google login failed", err)
		return
	}
	h.signedIn(c, http.StatusOK, "Login successful", res)
}

// GoogleRegister POST /api/google/register
func (h *AuthHandler) GoogleRegister(c *gin.Context) {
	var req googleRegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Svc.GoogleRegister(c.Request.Context(), req.Credential, entity.Role(req.Role), requestMeta(c))
	if err != nil {
		fail(c, h.Logger, "google register failed", err)
		return
	}
	h.signedIn(c, http.StatusCreated, "Registration successfull", res)
}

// ForgotPassword POST /api/forgot/password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotRequest
	if !bindJSON(c, &req) {
		return
	}
	ticket, err := h.Svc.ForgotPassword(c.Request.Context(), req.Identifier, requestMeta(c))
	if errors.Is(err, application.ErrUserNotFound) {
		response.Error(c, http.StatusUnauthorized, MsgNoAccount)
		return
	}
	if err != nil {
		fail(c, h.Logger, "forgot password failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uId": ticket})
}

// ResetPassword POST /api/reset/password/:id (behind OTPGate)
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		response.Invalid(c, err)
		return
	}
	pending, err := middleware.OTPPayload[application.PendingReset](c)
	if err != nil {
		response.Internal(c, h.Logger, "reset ticket decode failed", err)
		return
	}
	u, err := h.Svc.ResetPassword(c.Request.Context(), *pending, req.Identifier, req.Password, requestMeta(c))
	if errors.Is(err, application.ErrUserNotFound) {
		response.Error(c, http.StatusUnauthorized, MsgNoAccount)
		return
	}
	if err != nil {
		fail(c, h.Logger, "reset password failed", err)
		return
	}
	response.Success(c, http.StatusCreated, "Password reseted sucessfully", "user", u)
}

// Refresh POST /api/refresh/:role reads the <role>JWT cookie and rotates both tokens.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var u roleURI
	if err := c.ShouldBindUri(&u); err != nil {
		response.Invalid(c, err)
		return
	}
	role := entity.Role(u.Role)
	token, err := c.Cookie(role.CookieName())
	if err != nil || token == "" {
		response.Error(c, http.StatusUnauthorized, "Unauthorized: no refresh token")
		return
	}
	pair, _, err := h.Svc.Refresh(c.Request.Context(), role, token)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			h.Cookies.Clear(c, role.CookieName())
			response.Error(c, http.StatusUnauthorized, "Unauthorized: invalid refresh token")
			return
		}
		fail(c, h.Logger, "refresh failed", err)
		return
	}
	h.Cookies.SetRefresh(c, role.CookieName(), pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Success(c, http.StatusOK, "Token refreshed", "accessToken", pair.AccessToken)
}

// Logout POST /api/logout/:role
func (h *AuthHandler) Logout(c *gin.Context) {
	var u roleURI
	if err := c.ShouldBindUri(&u); err != nil {
		response.Invalid(c, err)
		return
	}
	role := entity.Role(u.Role)
	if token, err := c.Cookie(role.CookieName()); err == nil && token != "" {
		if err := h.Svc.Logout(c.Request.Context(), token, requestMeta(c)); err != nil {
			fail(c, h.Logger, "logout failed", err)
			return
		}
	}
	h.Cookies.Clear(c, role.CookieName())
	response.Success[any](c, http.StatusOK, "Logged out", "", nil)
}
