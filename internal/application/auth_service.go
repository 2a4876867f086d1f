package application

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	repo "github.com/oksasatya/go-learning-platform/internal/domain/repository"
	"github.com/oksasatya/go-learning-platform/pkg/helpers"
	mailtpl "github.com/oksasatya/go-learning-platform/pkg/mailer/templates"
)

// PendingSignup is the step-one payload stored next to the signup OTP.
type PendingSignup struct {
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     entity.Role `json:"role"`
}

// PendingReset is the payload stored next to a password reset OTP.
type PendingReset struct {
	UserID string `json:"userId"`
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// AuthResult is what a successful sign-in hands back to the transport.
// User is *entity.Profile, or *entity.AdminIdentity for admins.
type AuthResult struct {
	User   any
	UserID string
	Role   entity.Role
	Tokens TokenPair
}

type AuthService struct {
	Users    repo.UserRepository
	JWT      *helpers.JWTManager
	Sessions *SessionStore
	Redis    *redis.Client
	OTPTTL   time.Duration
	Notify   *Notifier
	Google   IdentityVerifier
	Audit    *Auditor
	Logger   *logrus.Logger
}

// IssueTokens starts a session and signs both tokens with its id.
func (s *AuthService) IssueTokens(ctx context.Context, userID string, role entity.Role) (TokenPair, error) {
	sid, err := s.Sessions.Start(ctx, userID, string(role))
	if err != nil {
		return TokenPair{}, fmt.Errorf("start session: %w", err)
	}
	return s.sign(userID, role, sid)
}

func (s *AuthService) sign(userID string, role entity.Role, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, string(role), sid)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, string(role), sid)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// SignupStepOne sends an OTP for a new account and returns the ticket id the code is stored under.
func (s *AuthService) SignupStepOne(ctx context.Context, in PendingSignup, meta RequestMeta) (string, error) {
	existing, err := s.Users.FindByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return "", err
	}
	if existing != nil {
		return "", ErrUserExists
	}
	return s.sendOTP(ctx, helpers.KeySignupOTP, mailtpl.SignupOTP, in.Username, in.Email, in, meta)
}

func (s *AuthService) sendOTP(ctx context.Context, keyFn func(string) string, template, name, email string, payload any, meta RequestMeta) (string, error) {
	code, err := helpers.GenOTPCode()
	if err != nil {
		return "", err
	}
	ticket := uuid.NewString()
	if err := helpers.SaveOTP(ctx, s.Redis, keyFn(ticket), code, payload, s.OTPTTL); err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	if err := s.Notify.SendOTP(ctx, template, name, email, code, meta); err != nil {
		return "", fmt.Errorf("enqueue otp email: %w", err)
	}
	return ticket, nil
}

// SignupStepTwo creates the account described by the verified ticket.
func (s *AuthService) SignupStepTwo(ctx context.Context, pending PendingSignup, password string, meta RequestMeta) (*AuthResult, error) {
	if pending.Role != entity.RoleStudent && pending.Role != entity.RoleTutor {
		return nil, ErrInvalidRole
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username: pending.Username,
		Email:    pending.Email,
		Password: hash,
		Role:     pending.Role,
		Status:   true,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	res, err := s.signIn(ctx, u)
	if err != nil {
		return nil, err
	}
	s.Notify.SendWelcome(ctx, u.Username, u.Email, string(u.Role))
	s.Audit.Record(ctx, u.ID, u.Email, ActionSignup, meta, map[string]any{"role": u.Role})
	return res, nil
}

func (s *AuthService) signIn(ctx context.Context, u *entity.User) (*AuthResult, error) {
	tokens, err := s.IssueTokens(ctx, u.ID, u.Role)
	if err != nil {
		return nil, err
	}
	res := &AuthResult{UserID: u.ID, Role: u.Role, Tokens: tokens}
	if u.Role == entity.RoleAdmin {
		res.User = &entity.AdminIdentity{ID: u.ID, Role: u.Role, Status: u.Status, Profile: u.Profile}
		return res, nil
	}
	p, err := profileOf(ctx, s.Users, u)
	if err != nil {
		return nil, err
	}
	res.User = p
	return res, nil
}

// Login accepts a username or an email as identifier.
func (s *AuthService) Login(ctx context.Context, identifier, password string, meta RequestMeta) (*AuthResult, error) {
	u, err := s.Users.FindByIdentifier(ctx, identifier)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	if u == nil || !u.Active() || !helpers.CompareHashAndPassword(u.Password, password) {
		s.Audit.Record(ctx, "", identifier, ActionLoginFailed, meta, nil)
		return nil, ErrInvalidCredentials
	}
	res, err := s.signIn(ctx, u)
	if err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, u.ID, u.Email, ActionLogin, meta, map[string]any{"role": u.Role})
	return res, nil
}

func (s *AuthService) verifyGoogle(ctx context.Context, credential string) (*helpers.GoogleIdentity, error) {
	if s.Google == nil {
		return nil, ErrInvalidCredentials
	}
	id, err := s.Google.Verify(ctx, credential)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Debug("google token rejected")
		}
		return nil, ErrInvalidCredentials
	}
	return id, nil
}

// GoogleLogin signs in an existing active account by its Google email.
func (s *AuthService) GoogleLogin(ctx context.Context, credential string, meta RequestMeta) (*AuthResult, error) {
	id, err := s.verifyGoogle(ctx, credential)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByEmail(ctx, id.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.Active() {
		return nil, ErrInvalidCredentials
	}
	res, err := s.signIn(ctx, u)
	if err != nil {
		return nil, err
	}
	s.Audit.Record(ctx, u.ID, u.Email, ActionGoogleLogin, meta, nil)
	return res, nil
}

var usernameUnsafe = regexp.MustCompile(`[^a-z0-9_.]+`)

func usernameFrom(id *helpers.GoogleIdentity) string {
	base := id.Name
	if base == "" {
		base, _, _ = strings.Cut(id.Email, "@")
	}
	base = usernameUnsafe.ReplaceAllString(strings.ToLower(strings.ReplaceAll(base, " ", "_")), "")
	if base == "" {
		base = "user"
	}
	return base
}

// GoogleRegister creates a Google account when the email is still free.
func (s *AuthService) GoogleRegister(ctx context.Context, credential string, role entity.Role, meta RequestMeta) (*AuthResult, error) {
	if role != entity.RoleStudent && role != entity.RoleTutor {
		return nil, ErrInvalidRole
	}
	id, err := s.verifyGoogle(ctx, credential)
	if err != nil {
		return nil, err
	}
	if _, err := s.Users.GetByEmail(ctx, id.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}
	secret, err := helpers.RandomSecret(24)
	if err != nil {
		return nil, err
	}
	hash, err := helpers.HashPassword(secret)
	if err != nil {
		return nil, err
	}
	base := usernameFrom(id)
	u := &entity.User{
		Email:    id.Email,
		Password: hash,
		Role:     role,
		Status:   true,
		IsGoogle: true,
		Profile:  id.Picture,
	}
	// usernames are unique; retry a few suffixes before giving up
	for attempt := 0; ; attempt++ {
		u.Username = base
		if attempt > 0 {
			u.Username = fmt.Sprintf("%s%d", base, attempt)
		}
		err = s.Users.Create(ctx, u)
		if err == nil {
			break
		}
		if !errors.Is(err, repo.ErrDuplicate) || attempt >= 5 {
			if errors.Is(err, repo.ErrDuplicate) {
				return nil, ErrUserExists
			}
			return nil, err
		}
	}
	res, err := s.signIn(ctx, u)
	if err != nil {
		return nil, err
	}
	s.Notify.SendWelcome(ctx, u.Username, u.Email, string(u.Role))
	s.Audit.Record(ctx, u.ID, u.Email, ActionGoogleSignup, meta, map[string]any{"role": u.Role})
	return res, nil
}

// ForgotPassword mails a reset code to an active account and returns the ticket id.
func (s *AuthService) ForgotPassword(ctx context.Context, identifier string, meta RequestMeta) (string, error) {
	u, err := s.Users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if !u.Active() {
		return "", ErrUserNotFound
	}
	ticket, err := s.sendOTP(ctx, helpers.KeyResetOTP, mailtpl.ResetOTP, u.Username, u.Email, PendingReset{UserID: u.ID}, meta)
	if err != nil {
		return "", err
	}
	s.Audit.Record(ctx, u.ID, u.Email, ActionResetRequest, meta, nil)
	return ticket, nil
}

// ResetPassword sets a new password for the account the verified ticket was issued to.
// identifier, when given, must name that same account.
func (s *AuthService) ResetPassword(ctx context.Context, pending PendingReset, identifier, password string, meta RequestMeta) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, pending.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !u.Active() || (identifier != "" && identifier != u.Username && identifier != u.Email) {
		return nil, ErrUserNotFound
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	updated, err := s.Users.UpdatePassword(ctx, u.ID, hash)
	if err != nil {
		return nil, err
	}
	// existing sessions die with the old password
	if err := s.Sessions.End(ctx, u.ID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("end session after reset failed")
	}
	s.Audit.Record(ctx, u.ID, u.Email, ActionResetPassword, meta, nil)
	return updated, nil
}

// Refresh validates the refresh token for role and rotates the session.
func (s *AuthService) Refresh(ctx context.Context, role entity.Role, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil || entity.Role(claims.Role) != role {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	ok, err := s.Sessions.Valid(ctx, claims.UserID, claims.SessionID)
	if err != nil {
		return TokenPair{}, "", err
	}
	if !ok {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return TokenPair{}, "", ErrInvalidCredentials
		}
		return TokenPair{}, "", err
	}
	if !u.Active() {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	sid, err := s.Sessions.Rotate(ctx, u.ID)
	if err != nil {
		return TokenPair{}, "", err
	}
	tokens, err := s.sign(u.ID, u.Role, sid)
	if err != nil {
		return TokenPair{}, "", err
	}
	return tokens, u.ID, nil
}

// Logout ends the session named by the refresh token. An unparsable token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string, meta RequestMeta) error {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil
	}
	if err := s.Sessions.End(ctx, claims.UserID); err != nil {
		return err
	}
	s.Audit.Record(ctx, claims.UserID, "", ActionLogout, meta, nil)
	return nil
}
