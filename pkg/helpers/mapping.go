package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/go-learning-platform/pkg/mailer"
	mailtpl "github.com/oksasatya/go-learning-platform/pkg/mailer/templates"
)

// SubjectFor is the fallback subject used when a job carries no subject of its own.
func SubjectFor(template string) string {
	switch template {
	case mailtpl.SignupOTP:
		return "Your verification code"
	case mailtpl.ResetOTP:
		return "Reset your password"
	case mailtpl.Welcome:
		return "Welcome aboard"
	default:
		return "Notification"
	}
}

// NormalizeJob lowercases the template name and makes sure Data carries the recipient.
func NormalizeJob(job *mailer.EmailJob) {
	job.Template = strings.ToLower(strings.TrimSpace(job.Template))
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
	if job.Subject == "" && job.Template != "" {
		job.Subject = SubjectFor(job.Template)
	}
}
