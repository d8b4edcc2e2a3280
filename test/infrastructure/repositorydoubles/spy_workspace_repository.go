//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
)

// SpyWorkspaceRepository implements repositories.WorkspaceRepository on a plain directory.
// Clone writes Files into the target directory so that real descriptor repositories can
// work on it.
type SpyWorkspaceRepository struct {
	// --- Clone ---
	Files      map[string]string // slash path -> content
	BranchName string
	CloneErr   error
	CloneCount int

	// --- Workspace ---
	CommitErr error
	PushErr   error
	Commits   []entities.CommitInput
	Committed map[string]string // staged file contents at commit time
	PushCount int
	Removed   bool

	Workspace *SpyWorkspace
}

var _ repositories.WorkspaceRepository = (*SpyWorkspaceRepository)(nil)

func (s *SpyWorkspaceRepository) Clone(
	_ context.Context,
	_ entities.RepoSettings,
	dir string,
) (repositories.Workspace, error) {
	s.CloneCount++
	if s.CloneErr != nil {
		return nil, s.CloneErr
	}

	for path, content := range s.Files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	branch := s.BranchName
	if branch == "" {
		branch = "main"
	}
	s.Workspace = &SpyWorkspace{owner: s, root: dir, branch: branch}
	return s.Workspace, nil
}

// SpyWorkspace records the calls of one working copy on its repository.
type SpyWorkspace struct {
	owner  *SpyWorkspaceRepository
	root   string
	branch string
}

var _ repositories.Workspace = (*SpyWorkspace)(nil)

func (w *SpyWorkspace) Root() string   { return w.root }
func (w *SpyWorkspace) Branch() string { return w.branch }

func (w *SpyWorkspace) Commit(_ context.Context, input entities.CommitInput) (*entities.Commit, error) {
	w.owner.Commits = append(w.owner.Commits, input)
	if w.owner.CommitErr != nil {
		return nil, w.owner.CommitErr
	}

	w.owner.Committed = make(map[string]string, len(input.Files))
	for _, path := range input.Files {
		data, err := os.ReadFile(filepath.Join(w.root, filepath.FromSlash(path)))
		if err != nil {
			return nil, err
		}
		w.owner.Committed[path] = string(data)
	}
	return &entities.Commit{
		Hash:    "0123456789abcdef0123456789abcdef01234567",
		Message: input.Message,
		Branch:  w.branch,
	}, nil
}

func (w *SpyWorkspace) Push(_ context.Context) error {
	w.owner.PushCount++
	return w.owner.PushErr
}

func (w *SpyWorkspace) Remove() error {
	w.owner.Removed = true
	return os.RemoveAll(w.root)
}
