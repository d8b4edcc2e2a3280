package smtp

import (
	"context"
	"crypto/tls"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/wneessen/go-mail"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
)

// SMTPNotifierRepository implements repositories.NotifierRepository over an authenticated
// STARTTLS session. The session is refused when the server does not offer STARTTLS.
type SMTPNotifierRepository struct {
	tlsConfig *tls.Config // nil verifies the server against the system roots
}

// NewSMTPNotifierRepository creates a notifier that refuses to send without STARTTLS.
func NewSMTPNotifierRepository() repositories.NotifierRepository {
	return &SMTPNotifierRepository{}
}

func (r *SMTPNotifierRepository) Send(
	ctx context.Context,
	settings entities.SMTPSettings,
	notification entities.Notification,
) error {
	msg, err := NewMessage(notification)
	if err != nil {
		return err
	}

	// The mechanism is picked from the ones the server advertises after STARTTLS.
	options := []mail.Option{
		mail.WithPort(settings.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthAutoDiscover),
		mail.WithUsername(settings.Username),
		mail.WithPassword(settings.Password),
		mail.WithTimeout(settings.Timeout),
	}
	if r.tlsConfig != nil {
		options = append(options, mail.WithTLSConfig(r.tlsConfig))
	}

	client, err := mail.NewClient(settings.Server, options...)
	if err != nil {
		return fmt.Errorf("%w: failed to create SMTP client: %v", entities.ErrNotification, err)
	}

	logger.Debugf("[smtp] Sending %q via %s:%d", notification.Subject, settings.Server, settings.Port)
	if err = client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", entities.ErrNotification, err)
	}
	return nil
}

// NewMessage builds the plain-text message for a notification.
func NewMessage(notification entities.Notification) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(notification.Sender); err != nil {
		return nil, fmt.Errorf("%w: invalid SENDER %q: %v", entities.ErrNotification, notification.Sender, err)
	}
	if err := msg.To(notification.Destination); err != nil {
		return nil, fmt.Errorf("%w: invalid DESTINATION %q: %v", entities.ErrNotification, notification.Destination, err)
	}
	msg.Subject(notification.Subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, notification.Body)
	return msg, nil
}
