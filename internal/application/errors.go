package application

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidOTP         = errors.New("invalid otp")
	ErrInvalidRole        = errors.New("invalid role")
	ErrSelfFollow         = errors.New("cannot follow yourself")

	ErrCourseNotFound = errors.New("course not found")
	ErrNotOwner       = errors.New("course not found for this tutor")

	ErrAlreadyReviewed = errors.New("review already posted for this course")
	ErrReviewNotFound  = errors.New("review not found")
	ErrNotReviewer     = errors.New("review belongs to another user")

	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
	ErrLanguageNotFound = errors.New("language not found")
	ErrLanguageExists   = errors.New("language already exists")

	ErrChatNotFound  = errors.New("chat not found")
	ErrNotInChat     = errors.New("not a member of this chat")
	ErrSelfChat      = errors.New("cannot open a chat with yourself")
	ErrEmptyMessage  = errors.New("message content is empty")
	ErrMediaDisabled = errors.New("media storage not configured")
)
