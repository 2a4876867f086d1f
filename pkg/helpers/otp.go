package helpers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrOTPMismatch is returned when the code is wrong or has expired.
var ErrOTPMismatch = errors.New("otp mismatch")

// KeySignupOTP is the Redis key holding a pending signup's code and payload.
func KeySignupOTP(id string) string {
	return "signup:otp:" + id
}

// KeyResetOTP is the Redis key holding a password reset code for a user.
func KeyResetOTP(uid string) string {
	return "reset:otp:" + uid
}

// GenOTPCode generates a secure random 6-digit OTP code as a zero-padded string
func GenOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// PendingOTP is what step one of a flow leaves in Redis for step two.
type PendingOTP[T any] struct {
	Code    string `json:"code"`
	Payload T      `json:"payload"`
}

// SaveOTP stores a code with its payload under key for ttl.
func SaveOTP[T any](ctx context.Context, rdb *redis.Client, key, code string, payload T, ttl time.Duration) error {
	return RedisSetJSON(ctx, rdb, key, PendingOTP[T]{Code: code, Payload: payload}, ttl)
}

// MaxOTPAttempts is how many wrong codes a ticket survives.
const MaxOTPAttempts = 5

func otpAttemptsKey(key string) string { return key + ":attempts" }

// Counts a miss against a live ticket. The counter shares the ticket's
// expiry and both keys are dropped once the limit is reached.
var otpMissScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
local n = redis.call("INCR", KEYS[2])
if n == 1 then
  local ttl = redis.call("PTTL", KEYS[1])
  if ttl > 0 then
    redis.call("PEXPIRE", KEYS[2], ttl)
  end
end
if n >= tonumber(ARGV[1]) then
  redis.call("DEL", KEYS[1], KEYS[2])
end
return n
`)

// VerifyOTP checks code against key and consumes it on success. Every miss
// counts against the ticket; after MaxOTPAttempts misses it is gone.
func VerifyOTP[T any](ctx context.Context, rdb *redis.Client, key, code string) (*T, error) {
	var p PendingOTP[T]
	ok, err := RedisGetJSON(ctx, rdb, key, &p)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrOTPMismatch
	}
	if p.Code != code {
		if err := otpMissScript.Run(ctx, rdb, []string{key, otpAttemptsKey(key)}, MaxOTPAttempts).Err(); err != nil {
			return nil, err
		}
		return nil, ErrOTPMismatch
	}
	if err := RedisDel(ctx, rdb, key, otpAttemptsKey(key)); err != nil {
		return nil, err
	}
	return &p.Payload, nil
}
