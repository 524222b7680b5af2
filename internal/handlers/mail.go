package handlers

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Mailer delivers transactional mail. Delivery itself lives outside this
// service.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer only logs what would have been sent.
type LogMailer struct {
	Log *logrus.Logger
}

func (m LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.Log.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Debug(body)
	m.Log.WithField("to", to).Info("mail queued")
	return nil
}
