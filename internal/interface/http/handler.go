package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/application"
	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/internal/interface/middleware"
	"github.com/oksasatya/go-learning-platform/pkg/response"
)

// MsgNoAccount is returned for every failed sign-in so callers cannot enumerate accounts.
const MsgNoAccount = "No active account found with the given credentials"

type idURI struct {
	ID string `uri:"id" binding:"required,objectid"`
}

// bindID validates the :id param as a 24-hex object id.
func bindID(c *gin.Context) (string, bool) {
	var u idURI
	if err := c.ShouldBindUri(&u); err != nil {
		response.Invalid(c, err)
		return "", false
	}
	return u.ID, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Invalid(c, err)
		return false
	}
	return true
}

func requestMeta(c *gin.Context) application.RequestMeta {
	return application.RequestMeta{IP: middleware.ClientIP(c), UserAgent: c.GetHeader("User-Agent")}
}

type failure struct {
	status  int
	message string
}

var failures = []struct {
	err error
	failure
}{
	{application.ErrInvalidCredentials, failure{http.StatusUnauthorized, MsgNoAccount}},
	{application.ErrInvalidOTP, failure{http.StatusUnauthorized, "Invalid OTP"}},
	{application.ErrUserExists, failure{http.StatusConflict, "User already exists with this username or email"}},
	{application.ErrUserNotFound, failure{http.StatusBadRequest, "User not found"}},
	{application.ErrInvalidRole, failure{http.StatusBadRequest, "Invalid role"}},
	{application.ErrSelfFollow, failure{http.StatusBadRequest, "You cannot follow yourself"}},
	{application.ErrCourseNotFound, failure{http.StatusBadRequest, "Course not found"}},
	{application.ErrNotOwner, failure{http.StatusBadRequest, "Course not found for this tutor"}},
	{application.ErrAlreadyReviewed, failure{http.StatusBadRequest, "You have already reviewed this course"}},
	{application.ErrReviewNotFound, failure{http.StatusBadRequest, "Review not found"}},
	{application.ErrNotReviewer, failure{http.StatusBadRequest, "You can only change your own review"}},
	{application.ErrCategoryNotFound, failure{http.StatusBadRequest, "Category not found"}},
	{application.ErrCategoryExists, failure{http.StatusConflict, "Category already exists"}},
	{application.ErrLanguageNotFound, failure{http.StatusBadRequest, "Language not found"}},
	{application.ErrLanguageExists, failure{http.StatusConflict, "Language already exists"}},
	{application.ErrChatNotFound, failure{http.StatusBadRequest, "Chat not found"}},
	{application.ErrNotInChat, failure{http.StatusBadRequest, "You are not a member of this chat"}},
	{application.ErrSelfChat, failure{http.StatusBadRequest, "You cannot chat with yourself"}},
	{application.ErrEmptyMessage, failure{http.StatusBadRequest, "Message content is required"}},
	{application.ErrMediaDisabled, failure{http.StatusServiceUnavailable, "File uploads are not available"}},
	{entity.ErrInvalidReviewCount, failure{http.StatusBadRequest, "Invalid review count"}},
}

// fail maps a service error to its status and message. Anything unknown is a 500 and is logged.
func fail(c *gin.Context, logger *logrus.Logger, op string, err error) {
	for _, f := range failures {
		if errors.Is(err, f.err) {
			response.Error(c, f.status, f.message)
			return
		}
	}
	response.Internal(c, logger, op, err)
}
