package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-learning-platform/pkg/response"
)

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc names the caller a request is counted against.
type KeyFunc func(c *gin.Context) string

// KeyByIP counts by client IP.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string { return "ip:" + ipFromCtx(c) }
}

// KeyByIPAndPath counts each route separately per client IP.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string { return normalizePath(c) + ":ip:" + ipFromCtx(c) }
}

// KeyByUserID counts by the authenticated user, or by IP before Auth has run.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserID); uid != "" {
			return "user:" + uid
		}
		return "anon:ip:" + ipFromCtx(c)
	}
}

// AllowFunc returns true to bypass the limit.
type AllowFunc func(*gin.Context) bool

// Limit is one fixed-window policy. Name keeps the counters of different
// policies apart when they share a key function.
type Limit struct {
	Name   string
	Max    int
	Window time.Duration
	Key    KeyFunc
	Skip   AllowFunc
}

func (l Limit) key(c *gin.Context) string {
	return "rl:" + l.Name + ":" + l.Key(c)
}

// Route policies.
var (
	LimitOTPSend    = Limit{Name: "otp_send", Max: 5, Window: time.Minute, Key: KeyByIPAndPath()}
	LimitOTPConfirm = Limit{Name: "otp_confirm", Max: 30, Window: time.Minute, Key: KeyByIPAndPath()}
	LimitLogin      = Limit{Name: "login", Max: 10, Window: time.Minute, Key: KeyByIP()}
	LimitRefresh    = Limit{Name: "refresh", Max: 60, Window: time.Minute, Key: KeyByIP()}
	LimitUser       = Limit{Name: "user", Max: 120, Window: time.Minute, Key: KeyByUserID()}
	LimitDebug      = Limit{Name: "debug", Max: 120, Window: time.Minute, Key: KeyByIP(), Skip: AllowPrivateIP()}
)

// INCR and set the window expiry on the first hit, atomically. Returns {count, pttl}.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RateLimit enforces l on Redis. It fails open when Redis errors and sets the
// X-RateLimit-* headers on every counted request.
func RateLimit(rdb *redis.Client, l Limit) gin.HandlerFunc {
	if rdb == nil || l.Max <= 0 || l.Window <= 0 || l.Key == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (l.Skip != nil && l.Skip(c)) {
			c.Next()
			return
		}

		res, err := incrExpireScript.Run(c.Request.Context(), rdb, []string{l.key(c)}, l.Window.Milliseconds()).Int64Slice()
		if err != nil || len(res) != 2 {
			c.Next()
			return
		}
		count, pttl := int(res[0]), time.Duration(res[1])*time.Millisecond
		resetSec := 0
		if pttl > 0 {
			resetSec = int((pttl + time.Second - 1) / time.Second)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.Max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(l.Max-count, 0)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if count > l.Max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Error(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
