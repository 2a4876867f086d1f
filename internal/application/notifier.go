package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/pkg/mailer"
	mailtpl "github.com/oksasatya/go-learning-platform/pkg/mailer/templates"
)

// Notifier turns account events into email jobs on the queue.
type Notifier struct {
	Pub     Publisher
	Brand   mailtpl.Brand
	Enabled bool
	OTPTTL  time.Duration
	Logger  *logrus.Logger
}

func (n *Notifier) enqueue(ctx context.Context, job mailer.EmailJob) error {
	if !n.Enabled || n.Pub == nil {
		if n.Logger != nil {
			n.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template, "data": job.Data}).
				Debug("mail sending disabled; job not enqueued")
		}
		return nil
	}
	return n.Pub.PublishJSON(ctx, job)
}

// SendOTP enqueues a signup or reset code. Failing to enqueue fails the request.
func (n *Notifier) SendOTP(ctx context.Context, template, name, email, code string, meta RequestMeta) error {
	if n == nil {
		return nil
	}
	data := mailtpl.NewOTPData(n.Brand, template, name, email, code,
		mailtpl.WithExpiresIn(n.OTPTTL),
		mailtpl.WithIP(meta.IP),
		mailtpl.WithUserAgent(meta.UserAgent),
		mailtpl.WithTime(time.Now()),
	)
	return n.enqueue(ctx, mailer.EmailJob{To: email, Template: template, Data: data})
}

// SendWelcome is best effort; a failure is only logged.
func (n *Notifier) SendWelcome(ctx context.Context, name, email, role string) {
	if n == nil {
		return
	}
	data := mailtpl.NewWelcomeData(n.Brand, name, email, mailtpl.WithRole(role))
	if err := n.enqueue(ctx, mailer.EmailJob{To: email, Template: mailtpl.Welcome, Data: data}); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithField("to", email).Warn("welcome email enqueue failed")
	}
}
