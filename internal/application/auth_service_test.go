package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	"github.com/oksasatya/go-learning-platform/pkg/helpers"
	mailtpl "github.com/oksasatya/go-learning-platform/pkg/mailer/templates"
)

func TestSignup_OTPFlow(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	in := PendingSignup{Username: "ann", Email: "ann@example.com", Role: entity.RoleStudent}

	ticket, err := h.auth.SignupStepOne(ctx, in, RequestMeta{IP: "10.0.0.1"})
	require.NoError(t, err)
	require.NotEmpty(t, ticket)

	job := h.pub.last(t)
	assert.Equal(t, mailtpl.SignupOTP, job.Template)
	assert.Equal(t, "ann@example.com", job.To)
	code, _ := job.Data["Code"].(string)
	require.Len(t, code, 6)

	pending, err := helpers.VerifyOTP[PendingSignup](ctx, h.rdb, helpers.KeySignupOTP(ticket), code)
	require.NoError(t, err)
	assert.Equal(t, in, *pending)

	res, err := h.auth.SignupStepTwo(ctx, *pending, "password123", RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStudent, res.Role)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	p, ok := res.User.(*entity.Profile)
	require.True(t, ok)
	assert.Equal(t, "ann", p.Username)
	assert.Equal(t, mailtpl.Welcome, h.pub.last(t).Template)

	_, err = h.auth.SignupStepOne(ctx, PendingSignup{Username: "other", Email: "ann@example.com", Role: entity.RoleTutor}, RequestMeta{})
	assert.ErrorIs(t, err, ErrUserExists)

	logs, _ := h.audit.Recent(ctx, 0)
	require.NotEmpty(t, logs)
	assert.Equal(t, ActionSignup, logs[0].Action)
}

func TestSignupStepTwo_RejectsAdminRole(t *testing.T) {
	h := newHarness(t)
	_, err := h.auth.SignupStepTwo(context.Background(), PendingSignup{Username: "x", Email: "x@example.com", Role: entity.RoleAdmin}, "password123", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	u := h.user(t, "bob", entity.RoleTutor)
	admin := h.user(t, "root", entity.RoleAdmin)

	res, err := h.auth.Login(ctx, "bob@example.com", "password123", RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.UserID)
	assert.IsType(t, &entity.Profile{}, res.User)

	res, err = h.auth.Login(ctx, "root", "password123", RequestMeta{})
	require.NoError(t, err)
	ident, ok := res.User.(*entity.AdminIdentity)
	require.True(t, ok)
	assert.Equal(t, admin.ID, ident.ID)

	_, err = h.auth.Login(ctx, "bob", "wrong-password", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = h.auth.Login(ctx, "nobody", "password123", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_BlockedUserRefused(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	u := h.user(t, "carl", entity.RoleStudent)
	admin := h.user(t, "root", entity.RoleAdmin)

	_, err := h.userSvc.Block(ctx, admin.ID, u.ID, RequestMeta{})
	require.NoError(t, err)

	_, err = h.auth.Login(ctx, "carl", "password123", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefresh_RotatesAndRevokes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.user(t, "dana", entity.RoleStudent)

	res, err := h.auth.Login(ctx, "dana", "password123", RequestMeta{})
	require.NoError(t, err)
	old := res.Tokens.RefreshToken

	_, _, err = h.auth.Refresh(ctx, entity.RoleTutor, old)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "role must match the cookie")

	pair, uid, err := h.auth.Refresh(ctx, entity.RoleStudent, old)
	require.NoError(t, err)
	assert.Equal(t, res.UserID, uid)

	_, _, err = h.auth.Refresh(ctx, entity.RoleStudent, old)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "rotated session invalidates the old token")

	require.NoError(t, h.auth.Logout(ctx, pair.RefreshToken, RequestMeta{}))
	_, _, err = h.auth.Refresh(ctx, entity.RoleStudent, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	u := h.user(t, "eve", entity.RoleStudent)

	_, err := h.auth.ForgotPassword(ctx, "ghost", RequestMeta{})
	assert.ErrorIs(t, err, ErrUserNotFound)

	ticket, err := h.auth.ForgotPassword(ctx, "eve", RequestMeta{})
	require.NoError(t, err)
	job := h.pub.last(t)
	assert.Equal(t, mailtpl.ResetOTP, job.Template)

	pending, err := helpers.VerifyOTP[PendingReset](ctx, h.rdb, helpers.KeyResetOTP(ticket), job.Data["Code"].(string))
	require.NoError(t, err)
	assert.Equal(t, u.ID, pending.UserID)

	_, err = h.auth.ResetPassword(ctx, *pending, "someone-else", "newpassword1", RequestMeta{})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = h.auth.ResetPassword(ctx, *pending, "eve@example.com", "newpassword1", RequestMeta{})
	require.NoError(t, err)

	_, err = h.auth.Login(ctx, "eve", "password123", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = h.auth.Login(ctx, "eve", "newpassword1", RequestMeta{})
	assert.NoError(t, err)
}

func TestGoogleRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.auth.GoogleLogin(ctx, "good", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials, "account must exist")

	res, err := h.auth.GoogleRegister(ctx, "good", entity.RoleTutor, RequestMeta{})
	require.NoError(t, err)
	p := res.User.(*entity.Profile)
	assert.Equal(t, "gina_lee", p.Username)
	assert.True(t, p.IsGoogle)
	assert.Equal(t, "https://pic", p.Profile)

	_, err = h.auth.GoogleRegister(ctx, "good", entity.RoleTutor, RequestMeta{})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = h.auth.GoogleLogin(ctx, "good", RequestMeta{})
	assert.NoError(t, err)

	_, err = h.auth.GoogleLogin(ctx, "forged", RequestMeta{})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
