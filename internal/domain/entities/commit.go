package entities

import (
	"github.com/ProtonMail/go-crypto/openpgp"
)

// Identity is the author and committer of the automated commit.
type Identity struct {
	Name  string
	Email string
}

// SigningKey is an imported OpenPGP key that passed the fingerprint check.
type SigningKey struct {
	Fingerprint string
	KeyID       string // long ID of the key named by GPG_KEY_ID
	SignerID    uint64 // numeric KeyID; signatures are made by this key only
	Entity      *openpgp.Entity
}

// CommitInput holds everything needed to create the signed commit.
type CommitInput struct {
	Files   []string // paths relative to the working copy root
	Message string
	Author  Identity
	Key     *SigningKey
}

// Commit is the signed commit created by a run.
type Commit struct {
	Hash    string
	Message string
	Branch  string
}

// WebURL joins the commit hash onto a web URL prefix such as
// "https://gitlab.com/yiffos/pkgscript/-/commit/".
func (c Commit) WebURL(base string) string {
	return base + c.Hash
}
