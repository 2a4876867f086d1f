package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/internal/domain/entity"
	repo "github.com/oksasatya/go-learning-platform/internal/domain/repository"
)

// Audit actions.
const (
	ActionSignup        = "signup"
	ActionLogin         = "login"
	ActionLoginFailed   = "login_failed"
	ActionGoogleLogin   = "google_login"
	ActionGoogleSignup  = "google_signup"
	ActionResetRequest  = "password_reset_request"
	ActionResetPassword = "password_reset"
	ActionLogout        = "logout"
	ActionBlock         = "block_user"
	ActionUnblock       = "unblock_user"
)

// Auditor writes audit entries. Failures are logged and never surface to the caller.
type Auditor struct {
	Repo   repo.AuditRepository
	Logger *logrus.Logger
}

func (a *Auditor) Record(ctx context.Context, userID, email, action string, meta RequestMeta, md map[string]any) {
	if a == nil || a.Repo == nil {
		return
	}
	entry := &entity.AuditLog{
		UserID:    userID,
		Email:     email,
		Action:    action,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Metadata:  md,
	}
	if err := a.Repo.Insert(ctx, entry); err != nil && a.Logger != nil {
		a.Logger.WithError(err).WithFields(logrus.Fields{"action": action, "user_id": userID}).Warn("audit insert failed")
	}
}

func (a *Auditor) Recent(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	if a == nil || a.Repo == nil {
		return []entity.AuditLog{}, nil
	}
	return a.Repo.Recent(ctx, limit)
}
