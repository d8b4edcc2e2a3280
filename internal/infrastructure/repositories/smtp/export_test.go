//go:build unit

package smtp

import (
	"crypto/tls"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
)

// NewSMTPNotifierRepositoryWithTLSConfig creates a notifier that trusts the given roots.
func NewSMTPNotifierRepositoryWithTLSConfig(config *tls.Config) repositories.NotifierRepository {
	return &SMTPNotifierRepository{tlsConfig: config}
}
