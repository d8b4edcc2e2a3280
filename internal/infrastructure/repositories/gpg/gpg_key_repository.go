package gpg

import (
	"fmt"
	"strings"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
)

const minKeyIDSize = 8

// GPGKeyRepository implements repositories.KeyRepository with an in-memory OpenPGP keyring.
type GPGKeyRepository struct{}

// NewGPGKeyRepository creates a new GPGKeyRepository.
func NewGPGKeyRepository() repositories.KeyRepository {
	return &GPGKeyRepository{}
}

// Import reads the armored key and checks it against the configured fingerprint and
// key ID. Only the first key of the armored block is considered.
func (r *GPGKeyRepository) Import(settings entities.SigningSettings) (*entities.SigningKey, error) {
	keyring, err := openpgp.ReadArmoredKeyRing(strings.NewReader(settings.ArmoredKey))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read GPG_KEY: %v", entities.ErrConfiguration, err)
	}
	if len(keyring) == 0 || keyring[0].PrimaryKey == nil {
		return nil, fmt.Errorf("%w: GPG_KEY holds no key", entities.ErrConfiguration)
	}
	entity := keyring[0]

	fingerprint := fmt.Sprintf("%X", entity.PrimaryKey.Fingerprint)
	if fingerprint != normalize(settings.Fingerprint) {
		return nil, fmt.Errorf(
			"%w: the fingerprint of the imported key (%s) does not match GPG_FINGERPRINT (%s)",
			entities.ErrConfiguration, fingerprint, settings.Fingerprint,
		)
	}

	named, err := matchKeyID(entity, settings.KeyID)
	if err != nil {
		return nil, err
	}
	keyID := named.KeyIdString()
	if _, ok := entity.SigningKeyById(time.Now(), named.KeyId); !ok {
		return nil, fmt.Errorf(
			"%w: GPG_KEY_ID %s names a key that cannot make signatures", entities.ErrConfiguration, keyID,
		)
	}

	if entity.PrivateKey == nil {
		return nil, fmt.Errorf("%w: GPG_KEY %s has no private key", entities.ErrConfiguration, fingerprint)
	}
	if err = unlock(entity, settings.Passphrase); err != nil {
		return nil, err
	}

	logger.Debugf("[gpg] Loaded key %s (signing with %s)", fingerprint, keyID)
	return &entities.SigningKey{Fingerprint: fingerprint, KeyID: keyID, SignerID: named.KeyId, Entity: entity}, nil
}

// matchKeyID returns the primary key or subkey named by id. The id may be a short ID,
// a long ID or a fingerprint.
func matchKeyID(entity *openpgp.Entity, id string) (*packet.PublicKey, error) {
	want := normalize(id)
	if len(want) < minKeyIDSize {
		return nil, fmt.Errorf("%w: GPG_KEY_ID %q is too short", entities.ErrConfiguration, id)
	}

	keys := []*packet.PublicKey{entity.PrimaryKey}
	for _, subkey := range entity.Subkeys {
		if subkey.PublicKey != nil {
			keys = append(keys, subkey.PublicKey)
		}
	}
	for _, key := range keys {
		if strings.HasSuffix(fmt.Sprintf("%X", key.Fingerprint), want) {
			return key, nil
		}
	}
	return nil, fmt.Errorf("%w: GPG_KEY_ID %s is not part of the imported key", entities.ErrConfiguration, id)
}

func unlock(entity *openpgp.Entity, passphrase string) error {
	encrypted := entity.PrivateKey.Encrypted
	for _, subkey := range entity.Subkeys {
		if subkey.PrivateKey != nil && subkey.PrivateKey.Encrypted {
			encrypted = true
		}
	}
	if !encrypted {
		return nil
	}
	if passphrase == "" {
		return fmt.Errorf("%w: GPG_KEY is encrypted and GPG_PASSPHRASE is empty", entities.ErrConfiguration)
	}
	if err := entity.DecryptPrivateKeys([]byte(passphrase)); err != nil {
		return fmt.Errorf("%w: failed to unlock GPG_KEY: %v", entities.ErrConfiguration, err)
	}
	return nil
}

// normalize upper-cases a fingerprint or key ID and drops spaces and the 0x prefix.
func normalize(value string) string {
	value = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))
	return strings.TrimPrefix(value, "0X")
}
