package repositories

import (
	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
)

// KeyRepository imports signing keys.
type KeyRepository interface {
	// Import parses the armored key and checks it against the expected fingerprint
	// and key ID. A mismatch is a configuration error.
	Import(settings entities.SigningSettings) (*entities.SigningKey, error)
}
