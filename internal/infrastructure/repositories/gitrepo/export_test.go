//go:build unit

package gitrepo

import (
	"github.com/go-git/go-git/v5"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
)

var ResolveAuth = resolveAuth //nolint:gochecknoglobals // test export

func NewKeySigner(key *entities.SigningKey) git.Signer {
	return &keySigner{key: key}
}
