package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"io"
	"strings"
	"time"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
)

const (
	remoteName = "origin"
	sshUser    = "git"
)

// GitWorkspaceRepository implements repositories.WorkspaceRepository with go-git.
type GitWorkspaceRepository struct{}

// NewGitWorkspaceRepository creates a new GitWorkspaceRepository.
func NewGitWorkspaceRepository() repositories.WorkspaceRepository {
	return &GitWorkspaceRepository{}
}

// Clone checks out the default branch of the remote into dir.
func (r *GitWorkspaceRepository) Clone(
	ctx context.Context,
	settings entities.RepoSettings,
	dir string,
) (repositories.Workspace, error) {
	auth, err := resolveAuth(settings)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:        settings.URL,
		Auth:       auth,
		RemoteName: remoteName,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to clone repository: %v", entities.ErrPublish, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get HEAD after clone: %v", entities.ErrPublish, err)
	}
	if !head.Name().IsBranch() {
		return nil, fmt.Errorf("%w: HEAD of %s is not a branch", entities.ErrPublish, settings.URL)
	}

	return &gitWorkspace{
		repo:   repo,
		root:   dir,
		branch: head.Name().Short(),
		auth:   auth,
	}, nil
}

// resolveAuth picks the transport credentials for the remote URL. SSH remotes use the
// agent when one is running and SSH_KEY_PATH otherwise; HTTP remotes use basic auth
// when a token is configured.
func resolveAuth(settings entities.RepoSettings) (transport.AuthMethod, error) {
	endpoint, err := transport.NewEndpoint(settings.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid REPO_URL %q: %v", entities.ErrConfiguration, settings.URL, err)
	}

	switch endpoint.Protocol {
	case "ssh":
		user := endpoint.User
		if user == "" {
			user = sshUser
		}
		if os.Getenv("SSH_AUTH_SOCK") != "" {
			auth, agentErr := ssh.NewSSHAgentAuth(user)
			if agentErr == nil {
				logger.Debug("[git] Using the SSH agent")
				return auth, nil
			}
			logger.Warnf("[git] SSH agent auth failed, falling back to the key file: %v", agentErr)
		}
		if settings.SSHKeyPath == "" {
			return nil, fmt.Errorf("%w: no SSH agent found and SSH_KEY_PATH is not set", entities.ErrConfiguration)
		}
		auth, keyErr := ssh.NewPublicKeysFromFile(user, settings.SSHKeyPath, "")
		if keyErr != nil {
			return nil, fmt.Errorf("%w: could not load SSH key: %v", entities.ErrConfiguration, keyErr)
		}
		return auth, nil
	case "http", "https":
		if settings.Token == "" {
			return nil, nil //nolint:nilnil // anonymous access
		}
		return &http.BasicAuth{Username: settings.Username, Password: settings.Token}, nil
	default:
		return nil, nil //nolint:nilnil // local transports need no credentials
	}
}

type gitWorkspace struct {
	repo   *git.Repository
	root   string
	branch string
	auth   transport.AuthMethod
}

func (w *gitWorkspace) Root() string   { return w.root }
func (w *gitWorkspace) Branch() string { return w.branch }

func (w *gitWorkspace) Commit(_ context.Context, input entities.CommitInput) (*entities.Commit, error) {
	worktree, err := w.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get worktree: %v", entities.ErrPublish, err)
	}

	for _, file := range input.Files {
		if _, addErr := worktree.Add(file); addErr != nil {
			return nil, fmt.Errorf("%w: failed to stage %s: %v", entities.ErrPublish, file, addErr)
		}
	}

	signature := &object.Signature{
		Name:  input.Author.Name,
		Email: input.Author.Email,
		When:  time.Now(),
	}
	options := &git.CommitOptions{Author: signature, Committer: signature}
	if input.Key != nil && input.Key.Entity != nil {
		options.Signer = &keySigner{key: input.Key}
	}

	hash, err := worktree.Commit(input.Message, options)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to commit: %v", entities.ErrPublish, err)
	}

	return &entities.Commit{Hash: hash.String(), Message: input.Message, Branch: w.branch}, nil
}

// keySigner makes detached signatures with the exact key named by SignerID.
type keySigner struct {
	key *entities.SigningKey
}

var _ git.Signer = (*keySigner)(nil)

func (s *keySigner) Sign(message io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	signConfig := &packet.Config{SigningKeyId: s.key.SignerID}
	if err := openpgp.ArmoredDetachSign(&buf, s.key.Entity, message, signConfig); err != nil {
		return nil, fmt.Errorf("failed to sign with key %s: %w", s.key.KeyID, err)
	}
	return buf.Bytes(), nil
}

// Push sends the checked out branch to origin. A rejected update is returned as is and
// never retried.
func (w *gitWorkspace) Push(ctx context.Context) error {
	ref := "refs/heads/" + w.branch
	err := w.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: remoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec(ref + ":" + ref)},
		Auth:       w.auth,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		logger.Debugf("[git] %s already up to date on %s", ref, remoteName)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s", entities.ErrPublish, strings.TrimSpace(err.Error()))
	}
	return nil
}

func (w *gitWorkspace) Remove() error {
	return os.RemoveAll(w.root)
}
