package repositories

import (
	"context"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
)

// NotifierRepository delivers notifications to the maintainer.
type NotifierRepository interface {
	Send(ctx context.Context, settings entities.SMTPSettings, notification entities.Notification) error
}
