package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-learning-platform/pkg/helpers"
	"github.com/oksasatya/go-learning-platform/pkg/mailer"
	mailtpl "github.com/oksasatya/go-learning-platform/pkg/mailer/templates"
)

const sendTimeout = 15 * time.Second

type sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// outcome tells the consumer loop what to do with a delivery.
type outcome int

const (
	ack outcome = iota
	drop
	requeue
)

var errNoRecipient = errors.New("job has no recipient")

type worker struct {
	mail   sender
	logger *logrus.Logger
}

// process decodes one queue message, renders it and sends it. Jobs that can
// never succeed are dropped; send failures are requeued.
func (w *worker) process(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		helpers.LogWarn(w.logger, "undecodable email job dropped", err, nil)
		return drop
	}
	if job.To == "" {
		helpers.LogWarn(w.logger, "email job dropped", errNoRecipient, logrus.Fields{"template": job.Template})
		return drop
	}
	helpers.NormalizeJob(&job)

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			helpers.LogWarn(w.logger, "email render failed, job dropped", err, logrus.Fields{"template": job.Template})
			return drop
		}
		subject, text, html = s, t, h
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.mail.Send(c, job.To, subject, text, html); err != nil {
		helpers.LogError(w.logger, "email send failed, requeueing", err, logrus.Fields{"to": job.To, "template": job.Template})
		return requeue
	}
	w.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return ack
}
