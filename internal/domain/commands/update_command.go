package commands

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/pkgscript-updater/internal/infrastructure/repositories"
)

const (
	workingCopyDir = "PKGSCRIPT"
	sha512HexSize  = 128
)

// Update is the interface for the update command.
type Update interface {
	Execute(
		ctx context.Context,
		settings *entities.Settings,
		target *entities.PackageTarget,
		opts UpdateOptions,
	) (*entities.RunReport, error)
}

// UpdateOptions holds runtime options for a single run.
type UpdateOptions struct {
	DryRun  bool
	Verbose bool
	WorkDir string // parent of the scratch directory; empty means the system temp dir
}

// UpdateCommand runs the whole workflow: import key -> clone -> fetch tag -> download
// and verify -> patch descriptors -> signed commit -> push -> cleanup -> notify.
type UpdateCommand struct {
	releaseRegistry *infraRepos.ReleaseRegistry
	artifacts       repositories.ArtifactRepository
	descriptors     repositories.DescriptorRepository
	workspaces      repositories.WorkspaceRepository
	keys            repositories.KeyRepository
	notifier        repositories.NotifierRepository
	now             func() time.Time
}

// NewUpdateCommand creates a new UpdateCommand.
func NewUpdateCommand(
	releaseRegistry *infraRepos.ReleaseRegistry,
	artifacts repositories.ArtifactRepository,
	descriptors repositories.DescriptorRepository,
	workspaces repositories.WorkspaceRepository,
	keys repositories.KeyRepository,
	notifier repositories.NotifierRepository,
) *UpdateCommand {
	return &UpdateCommand{
		releaseRegistry: releaseRegistry,
		artifacts:       artifacts,
		descriptors:     descriptors,
		workspaces:      workspaces,
		keys:            keys,
		notifier:        notifier,
		now:             time.Now,
	}
}

// run carries the state of one Execute call.
type run struct {
	settings  *entities.Settings
	target    *entities.PackageTarget
	opts      UpdateOptions
	report    *entities.RunReport
	scratch   string
	workspace repositories.Workspace
	cleaned   bool
}

func (r *run) advance(stage entities.RunStage) {
	logger.Debugf("Run stage: %s -> %s", r.report.Stage, stage)
	r.report.Stage = stage
}

// Execute runs the update workflow. Any error before the notification stage aborts
// the run and is returned; a notification failure is only recorded in the report.
func (it *UpdateCommand) Execute(
	ctx context.Context,
	settings *entities.Settings,
	target *entities.PackageTarget,
	opts UpdateOptions,
) (*entities.RunReport, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	r := &run{
		settings: settings,
		target:   target,
		opts:     opts,
		report:   &entities.RunReport{Stage: entities.StageInit},
	}
	defer it.cleanup(r)

	logger.Info("==> Setting up the environment...")

	// The key is checked before anything touches the network.
	key, err := it.keys.Import(settings.Signing)
	if err != nil {
		return r.report, fmt.Errorf("failed to import signing key: %w", err)
	}
	logger.Infof("Imported signing key %s", key.Fingerprint)

	provider, err := it.releaseRegistry.Get(target.Provider, repositories.ReleaseProviderOptions{
		Token:   settings.ReleaseToken(target.Provider),
		BaseURL: target.APIBaseURL,
	})
	if err != nil {
		return r.report, fmt.Errorf("%w: %v", entities.ErrConfiguration, err)
	}

	if err = it.clone(ctx, r); err != nil {
		return r.report, err
	}

	logger.Infof("==> Running %s CI...", target.Package)

	if err = it.fetchTag(ctx, r, provider); err != nil {
		return r.report, err
	}
	if err = it.download(ctx, r); err != nil {
		return r.report, err
	}

	changed, err := it.updateDescriptors(ctx, r)
	if err != nil {
		return r.report, err
	}
	if !changed {
		logger.Infof("%s is already at %s, nothing to publish", target.Package, r.report.Tag)
		it.cleanup(r)
		r.advance(entities.StageUpToDate)
		return r.report, nil
	}

	message := target.CommitMessage(r.report.Tag)
	if opts.DryRun {
		logger.Infof("[DRY RUN] Would commit %q and push to %s", message, r.workspace.Branch())
		it.cleanup(r)
		r.advance(entities.StageDryRun)
		return r.report, nil
	}

	if err = it.publish(ctx, r, key, message); err != nil {
		return r.report, err
	}

	it.cleanup(r)
	r.advance(entities.StageCleanedUp)

	r.report.Notification = it.notify(ctx, r)
	if r.report.Notification.Delivered {
		r.advance(entities.StageNotified)
	}

	r.advance(entities.StageDone)
	return r.report, nil
}

func (it *UpdateCommand) clone(ctx context.Context, r *run) error {
	scratch, err := os.MkdirTemp(r.opts.WorkDir, "pkgscript-updater-*")
	if err != nil {
		return fmt.Errorf("failed to create scratch directory: %w", err)
	}
	r.scratch = scratch

	logger.Info("Cloning PKGSCRIPT repo...")
	cloneCtx, cancel := context.WithTimeout(ctx, r.settings.Repo.Timeout)
	defer cancel()

	workspace, err := it.workspaces.Clone(cloneCtx, r.settings.Repo, filepath.Join(scratch, workingCopyDir))
	if err != nil {
		return fmt.Errorf("failed to clone %s: %w", r.settings.Repo.URL, err)
	}
	r.workspace = workspace
	r.advance(entities.StageCloned)
	logger.Debugf("Checked out branch %q in %s", workspace.Branch(), workspace.Root())
	return nil
}

func (it *UpdateCommand) fetchTag(ctx context.Context, r *run, provider repositories.ReleaseRepository) error {
	logger.Info("Getting the latest tag...")
	fetchCtx, cancel := context.WithTimeout(ctx, r.settings.HTTPTimeout)
	defer cancel()

	upstream := r.target.Upstream
	tag, err := provider.LatestTag(fetchCtx, upstream)
	if err != nil {
		return fmt.Errorf("failed to get latest tag of %s/%s: %w", upstream.Organization, upstream.Name, err)
	}
	r.report.Tag = tag
	r.advance(entities.StageTagFetched)
	logger.Infof("Latest tag: %s (version %s)", tag.Name, tag.Version())
	return nil
}

func (it *UpdateCommand) download(ctx context.Context, r *run) error {
	url := r.target.ArchiveURL(r.report.Tag)
	logger.Infof("Downloading %s...", url)
	downloadCtx, cancel := context.WithTimeout(ctx, r.settings.HTTPTimeout)
	defer cancel()

	artifact, err := it.artifacts.Download(downloadCtx, url, r.report.Tag, r.scratch)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	r.advance(entities.StageDownloaded)
	logger.Debugf("Stored %d bytes from %s at %s", artifact.Size, artifact.URL, artifact.Path)

	logger.Info("Calculating sha512sum...")
	if verifyErr := verifyChecksum(artifact.Checksum); verifyErr != nil {
		return verifyErr
	}
	r.report.Checksum = artifact.Checksum
	r.advance(entities.StageVerified)
	logger.Infof("sha512sum of %s: %s", filepath.Base(artifact.Path), artifact.Checksum)
	return nil
}

// verifyChecksum checks the digest has the shape descriptors expect.
func verifyChecksum(checksum entities.Checksum) error {
	if checksum.Algorithm != entities.ChecksumSHA512 {
		return fmt.Errorf("%w: unexpected checksum algorithm %q", entities.ErrUpstreamFetch, checksum.Algorithm)
	}
	if len(checksum.Digest) != sha512HexSize {
		return fmt.Errorf("%w: sha512 digest has %d hex characters", entities.ErrUpstreamFetch, len(checksum.Digest))
	}
	if _, err := hex.DecodeString(checksum.Digest); err != nil {
		return fmt.Errorf("%w: sha512 digest is not hex: %v", entities.ErrUpstreamFetch, err)
	}
	return nil
}

// updateDescriptors patches every descriptor and reports whether any file changed.
func (it *UpdateCommand) updateDescriptors(ctx context.Context, r *run) (bool, error) {
	tag := r.report.Tag
	root := r.workspace.Root()

	for _, descriptor := range r.target.Descriptors {
		current, err := it.descriptors.Read(ctx, root, descriptor)
		if err != nil {
			return false, err
		}
		for _, field := range descriptor.Fields {
			if field.Kind == entities.FieldVersion && tag.IsOlderThan(current[field.Name]) {
				return false, fmt.Errorf(
					"%w: %s: refusing to downgrade %s from %s to %s",
					entities.ErrDescriptorUpdate, descriptor.Path, field.Name, current[field.Name], tag.Version(),
				)
			}
		}
	}

	values := map[entities.FieldKind]string{
		entities.FieldVersion:  tag.Version(),
		entities.FieldChecksum: r.report.Checksum.Digest,
	}

	changed := false
	for _, descriptor := range r.target.Descriptors {
		logger.Infof("Modifying %s...", descriptor.Path)
		fileChanged, err := it.descriptors.Update(ctx, root, descriptor, values)
		if err != nil {
			return false, err
		}
		changed = changed || fileChanged
	}

	r.advance(entities.StageDescriptorsUpdated)
	return changed, nil
}

func (it *UpdateCommand) publish(ctx context.Context, r *run, key *entities.SigningKey, message string) error {
	logger.Info("==> Committing...")
	commit, err := r.workspace.Commit(ctx, entities.CommitInput{
		Files:   r.target.DescriptorPaths(),
		Message: message,
		Author:  r.settings.Repo.Author,
		Key:     key,
	})
	if err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}
	r.report.Commit = commit
	r.advance(entities.StageCommitted)
	logger.Infof("Created commit %s: %s", commit.Hash, commit.Message)

	logger.Info("==> Pushing commit...")
	pushCtx, cancel := context.WithTimeout(ctx, r.settings.Repo.Timeout)
	defer cancel()

	if pushErr := r.workspace.Push(pushCtx); pushErr != nil {
		return fmt.Errorf("failed to push %s: %w", commit.Branch, pushErr)
	}
	r.advance(entities.StagePushed)
	return nil
}

// notify sends the update email. Failures are logged and returned in the result only.
func (it *UpdateCommand) notify(ctx context.Context, r *run) entities.NotificationResult {
	logger.Info("Sending email...")
	notification := entities.NewNotification(
		r.target, r.report.Tag, *r.report.Commit, r.settings.CommitWebURL,
		r.settings.SMTP.Sender, r.settings.SMTP.Destination, it.now(),
	)

	mailCtx, cancel := context.WithTimeout(ctx, r.settings.SMTP.Timeout)
	defer cancel()

	if err := it.notifier.Send(mailCtx, r.settings.SMTP, notification); err != nil {
		if !errors.Is(err, entities.ErrNotification) {
			err = fmt.Errorf("%w: %w", entities.ErrNotification, err)
		}
		logger.Errorf("Unable to send email: %v", err)
		return entities.NotificationResult{Attempted: true, Err: err}
	}

	logger.Infof("Sent %q to %s", notification.Subject, notification.Destination)
	return entities.NotificationResult{Attempted: true, Delivered: true}
}

// cleanup removes the working copy and the scratch directory. It runs at most once.
func (it *UpdateCommand) cleanup(r *run) {
	if r.cleaned {
		return
	}
	r.cleaned = true

	if r.workspace == nil && r.scratch == "" {
		return
	}
	logger.Info("==> Cleaning up...")

	if r.workspace != nil {
		if err := r.workspace.Remove(); err != nil {
			logger.Warnf("Failed to remove working copy: %v", err)
		}
	}
	if r.scratch != "" {
		if err := os.RemoveAll(r.scratch); err != nil {
			logger.Warnf("Failed to remove %s: %v", r.scratch, err)
		}
	}
}
