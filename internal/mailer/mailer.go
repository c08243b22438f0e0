package mailer

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"meetup-service/internal/config"
)

// Mailer sends RSVP confirmation emails over SMTP. Delivery is best-effort:
// the caller logs and swallows any error.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func New(cfg config.EmailConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.From,
	}
}

const confirmationBody = `
<div style="background: #000; color: #fff; padding: 20px; font-family: Arial, sans-serif;">
  <h2 style="color: #87CEEB;">Event Confirmation</h2>
  <p>You have successfully RSVP'd for:</p>
  <h3 style="color: #ADD8E6;">%s</h3>
  <p><strong>Date:</strong> %s</p>
  <p><strong>Time:</strong> %s</p>
  <p>We look forward to seeing you there!</p>
</div>
`

// SendEventConfirmation mails the recipient a confirmation for the event.
// A non-empty qrPNG is attached as a check-in code.
func (m *Mailer) SendEventConfirmation(to, eventTitle, eventDate, eventTime string, qrPNG []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Event Confirmation: %s", eventTitle))
	msg.SetBody("text/html", fmt.Sprintf(confirmationBody, eventTitle, eventDate, eventTime))

	if len(qrPNG) > 0 {
		msg.Attach("checkin-qr.png", gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(qrPNG)
			return err
		}))
	}

	return m.dialer.DialAndSend(msg)
}
