//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
)

// StubKeyRepository implements repositories.KeyRepository with a fixed answer.
type StubKeyRepository struct {
	Key       *entities.SigningKey
	ImportErr error
	CallCount int
}

var _ repositories.KeyRepository = (*StubKeyRepository)(nil)

func (s *StubKeyRepository) Import(_ entities.SigningSettings) (*entities.SigningKey, error) {
	s.CallCount++
	if s.ImportErr != nil {
		return nil, s.ImportErr
	}
	if s.Key != nil {
		return s.Key, nil
	}
	return &entities.SigningKey{Fingerprint: "ABCDEF0123456789ABCDEF0123456789ABCDEF01", KeyID: "23456789ABCDEF01"}, nil
}
