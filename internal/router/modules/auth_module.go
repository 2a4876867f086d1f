package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-learning-platform/internal/container"
	handlers "github.com/oksasatya/go-learning-platform/internal/interface/http"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
	"github.com/oksasatya/go-learning-platform/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	c       *container.Container
}

func NewAuthModule(c *container.Container) *AuthModule {
	return &AuthModule{Handler: handlers.NewAuthHandler(c.Auth, c.Cookies, c.Logger), c: c}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := m.c.Redis
	otpSendLimiter := middleware.RateLimit(rdb, middleware.LimitOTPSend)
	otpConfirmLimiter := middleware.RateLimit(rdb, middleware.LimitOTPConfirm)
	loginLimiter := middleware.RateLimit(rdb, middleware.LimitLogin)
	refreshLimiter := middleware.RateLimit(rdb, middleware.LimitRefresh)

	signupGate := middleware.OTPGate(rdb, helpers.KeySignupOTP, m.c.Logger)
	resetGate := middleware.OTPGate(rdb, helpers.KeyResetOTP, m.c.Logger)

	rg.POST("/register/stepone", otpSendLimiter, m.Handler.SignupStepOne)
	rg.POST("/register/steptwo/:id", otpConfirmLimiter, signupGate, m.Handler.SignupStepTwo)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/google/login", loginLimiter, m.Handler.GoogleLogin)
	rg.POST("/google/register", loginLimiter, m.Handler.GoogleRegister)
	rg.POST("/forgot/password", otpSendLimiter, m.Handler.ForgotPassword)
	rg.POST("/reset/password/:id", otpConfirmLimiter, resetGate, m.Handler.ResetPassword)
	rg.POST("/refresh/:role", refreshLimiter, m.Handler.Refresh)
	rg.POST("/logout/:role", refreshLimiter, m.Handler.Logout)
}
