package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/pkg/helpers"
	"github.com/oksasatya/go-learning-platform/pkg/response"
)

const ctxOTPPayload = "otp_payload"

type otpBody struct {
	OTP string `json:"otp" binding:"required,otp"`
}

// OTPGate verifies the code in the body against the ticket named by :id and consumes it.
// The payload stored with the code is handed to the handler through OTPPayload.
// The body is read with ShouldBindBodyWith so the handler can bind it again.
func OTPGate(rdb *redis.Client, keyFn func(string) string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body otpBody
		if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
			response.Invalid(c, err)
			return
		}
		raw, err := helpers.VerifyOTP[json.RawMessage](c.Request.Context(), rdb, keyFn(c.Param("id")), body.OTP)
		if errors.Is(err, helpers.ErrOTPMismatch) {
			response.Error(c, http.StatusUnauthorized, "Invalid OTP")
			return
		}
		if err != nil {
			response.Internal(c, logger, "otp verify failed", err)
			return
		}
		c.Set(ctxOTPPayload, []byte(*raw))
		c.Next()
	}
}

// OTPPayload decodes the payload left by OTPGate.
func OTPPayload[T any](c *gin.Context) (*T, error) {
	raw, ok := c.Get(ctxOTPPayload)
	if !ok {
		return nil, errors.New("otp payload missing")
	}
	var out T
	if err := json.Unmarshal(raw.([]byte), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
