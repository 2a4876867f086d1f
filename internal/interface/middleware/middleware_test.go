package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-learning-platform/internal/application"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/pkg/helpers"
	"github.com/oksasatya/go-learning-platform/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, helpers.NewRedisClient(mr.Addr(), "", 0)
}

func TestAuth(t *testing.T) {
	_, rdb := newRedis(t)
	jwt := helpers.NewJWTManager("a", "r", time.Minute, time.Hour)
	sessions := application.NewSessionStore(rdb, time.Hour)

	r := gin.New()
	r.GET("/tutor", Auth(jwt, sessions, entity.RoleTutor), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c)+":"+string(Role(c)))
	})

	do := func(token string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/tutor", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusUnauthorized, do("garbage").Code)

	ctx := context.Background()
	sid, err := sessions.Start(ctx, "u1", "tutor")
	require.NoError(t, err)
	tok, _, err := jwt.GenerateAccessToken("u1", "tutor", sid)
	require.NoError(t, err)
	w := do(tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1:tutor", w.Body.String())

	sidS, _ := sessions.Start(ctx, "u2", "student")
	studentTok, _, _ := jwt.GenerateAccessToken("u2", "student", sidS)
	assert.Equal(t, http.StatusForbidden, do(studentTok).Code)

	require.NoError(t, sessions.End(ctx, "u1"))
	assert.Equal(t, http.StatusUnauthorized, do(tok).Code, "ended session rejects the token")
}

type signup struct {
	Email string `json:"email"`
}

func TestOTPGate(t *testing.T) {
	_, rdb := newRedis(t)
	ctx := context.Background()
	require.NoError(t, helpers.SaveOTP(ctx, rdb, helpers.KeySignupOTP("tk"), "123456", signup{Email: "a@b.co"}, time.Minute))

	r := gin.New()
	r.POST("/verify/:id", OTPGate(rdb, helpers.KeySignupOTP, nil), func(c *gin.Context) {
		p, err := OTPPayload[signup](c)
		require.NoError(t, err)
		var body struct {
			Password string `json:"password"`
		}
		require.NoError(t, c.ShouldBindBodyWith(&body, binding.JSON))
		c.String(http.StatusOK, p.Email+"/"+body.Password)
	})

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/verify/tk", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"otp":"12"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"errors"`)

	w = post(`{"otp":"000000"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Invalid OTP"}`, w.Body.String())

	w = post(`{"otp":"123456","password":"secret99"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@b.co/secret99", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, post(`{"otp":"123456"}`).Code, "code is consumed")
}

func TestOTPGateLocksTicketAfterMisses(t *testing.T) {
	_, rdb := newRedis(t)
	ctx := context.Background()
	require.NoError(t, helpers.SaveOTP(ctx, rdb, helpers.KeySignupOTP("tk"), "123456", signup{Email: "a@b.co"}, time.Minute))

	r := gin.New()
	r.POST("/verify/:id", OTPGate(rdb, helpers.KeySignupOTP, nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	post := func(otp string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/verify/tk", strings.NewReader(`{"otp":"`+otp+`"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < helpers.MaxOTPAttempts; i++ {
		assert.Equal(t, http.StatusUnauthorized, post("000000"))
	}
	assert.Equal(t, http.StatusUnauthorized, post("123456"), "ticket is gone after too many misses")
}

func TestRateLimit(t *testing.T) {
	_, rdb := newRedis(t)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/x", RateLimit(rdb, Limit{Name: "t", Max: 2, Window: time.Minute, Key: KeyByIPAndPath()}), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		if i == 2 {
			assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestAllowPrivateIP(t *testing.T) {
	_, rdb := newRedis(t)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/x", RateLimit(rdb, Limit{Name: "t", Max: 1, Window: time.Minute, Key: KeyByIP(), Skip: AllowPrivateIP()}), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("CF-Connecting-IP", "192.168.1.5")
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	id := w.Header().Get(HeaderRequestID)
	assert.Len(t, id, 36)
	assert.Equal(t, id, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "not-a-uuid")
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(HeaderRequestID))
}

func TestRateLimitPoliciesCountSeparately(t *testing.T) {
	_, rdb := newRedis(t)
	r := gin.New()
	login := Limit{Name: "login", Max: 1, Window: time.Minute, Key: KeyByIP()}
	refresh := Limit{Name: "refresh", Max: 1, Window: time.Minute, Key: KeyByIP()}
	r.GET("/login", RateLimit(rdb, login), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/refresh", RateLimit(rdb, refresh), func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("/login"))
	assert.Equal(t, http.StatusOK, get("/refresh"))
	assert.Equal(t, http.StatusTooManyRequests, get("/login"))
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr, rdb := newRedis(t)
	r := gin.New()
	r.GET("/x", RateLimit(rdb, Limit{Name: "t", Max: 1, Window: time.Minute, Key: KeyByIP()}), func(c *gin.Context) { c.Status(http.StatusOK) })
	mr.Close()

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
