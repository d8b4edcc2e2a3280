//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
)

// SpyNotifierRepository implements repositories.NotifierRepository and records every
// notification it is asked to send.
type SpyNotifierRepository struct {
	SendErr error
	Sent    []entities.Notification
}

var _ repositories.NotifierRepository = (*SpyNotifierRepository)(nil)

func (s *SpyNotifierRepository) Send(
	_ context.Context,
	_ entities.SMTPSettings,
	notification entities.Notification,
) error {
	s.Sent = append(s.Sent, notification)
	return s.SendErr
}
