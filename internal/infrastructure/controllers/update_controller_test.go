//go:build unit

package controllers_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/infrastructure/controllers"
	"github.com/rios0rios0/pkgscript-updater/test/domain/commanddoubles"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	for key, value := range map[string]string{
		"SMTP_SERVER": "smtp.example.com", "SMTP_PORT": "587", "SENDER": "bot@example.com",
		"DESTINATION": "maintainer@example.com", "SMTP_USERNAME": "bot", "SMTP_PASSWORD": "secret",
		"GITHUB_TOKEN": "ghp_test", "GPG_KEY": "key", "GPG_FINGERPRINT": "ABCD", "GPG_KEY_ID": "ABCD",
		"REPO_URL": "https://gitlab.com/yiffos/PKGSCRIPT.git", "GIT_NAME": "Package Bot",
		"GIT_EMAIL": "bot@example.com", "COMMIT_WEB_URL": "https://gitlab.com/yiffos/PKGSCRIPT/-/commit/",
	} {
		t.Setenv(key, value)
	}
}

func newCobraCommand(controller *controllers.UpdateController, args ...string) (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{Use: "run"}
	cmd.Flags().Bool("dry-run", false, "")
	cmd.Flags().Bool("verbose", false, "")
	controller.AddFlags(cmd)
	_ = cmd.Flags().Parse(args)
	cmd.SetContext(context.Background())

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	return cmd, out
}

func TestUpdateControllerExecute(t *testing.T) {
	t.Run("should run the built-in target with the parsed options", func(t *testing.T) {
		// given
		setRequiredEnv(t)
		stub := &commanddoubles.StubUpdateCommand{Report: &entities.RunReport{
			Stage:  entities.StageDone,
			Tag:    entities.ReleaseTag{Name: "v9.1.0450"},
			Commit: &entities.Commit{Hash: "0123456789abcdef"},
			Notification: entities.NotificationResult{Attempted: true, Delivered: true},
		}}
		controller := controllers.NewUpdateController(stub)
		workDir := t.TempDir()
		cmd, out := newCobraCommand(controller, "--dry-run", "--workdir", workDir)

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, 1, stub.ExecuteCallCount)
		assert.True(t, stub.LastOpts.DryRun)
		assert.Equal(t, workDir, stub.LastOpts.WorkDir)
		assert.Equal(t, "Vim", stub.LastTarget.Package)
		assert.Equal(t, "smtp.example.com", stub.LastSettings.SMTP.Server)
		assert.Contains(t, out.String(), "Vim updated to v9.1.0450 in 0123456789ab")
	})

	t.Run("should load the target profile from the flag", func(t *testing.T) {
		// given
		setRequiredEnv(t)
		path := filepath.Join(t.TempDir(), "neovim.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
package: Neovim
owner: neovim
repo: neovim
descriptors:
  - path: neovim/PKGSCRIPT
    fields:
      - {name: VERSION, kind: version, pattern: '(?m)^VERSION="([^"\n]*)"'}
`), 0o600))
		stub := &commanddoubles.StubUpdateCommand{}
		controller := controllers.NewUpdateController(stub)
		cmd, _ := newCobraCommand(controller, "--target", path)

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Neovim", stub.LastTarget.Package)
	})

	t.Run("should not run the command when the configuration is incomplete", func(t *testing.T) {
		// given
		setRequiredEnv(t)
		t.Setenv("GPG_KEY", "")
		stub := &commanddoubles.StubUpdateCommand{}
		controller := controllers.NewUpdateController(stub)
		cmd, _ := newCobraCommand(controller, "--env-file", filepath.Join(t.TempDir(), "absent.env"))

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrConfiguration)
		assert.Equal(t, 0, stub.ExecuteCallCount)
	})

	t.Run("should return the run error and print the failed stage", func(t *testing.T) {
		// given
		setRequiredEnv(t)
		stub := &commanddoubles.StubUpdateCommand{
			Report:     &entities.RunReport{Stage: entities.StageCommitted, Tag: entities.ReleaseTag{Name: "v9.1.0450"}},
			ExecuteErr: fmt.Errorf("%w: non-fast-forward", entities.ErrPublish),
		}
		controller := controllers.NewUpdateController(stub)
		cmd, out := newCobraCommand(controller)

		// when
		err := controller.Execute(cmd, nil)

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrPublish)
		assert.Contains(t, out.String(), "failed after stage committed")
	})
}

func TestUpdateControllerGetBind(t *testing.T) {
	t.Parallel()

	t.Run("should mount on the run subcommand", func(t *testing.T) {
		t.Parallel()

		// given
		controller := controllers.NewUpdateController(&commanddoubles.StubUpdateCommand{})

		// when
		bind := controller.GetBind()

		// then
		assert.Equal(t, "run", bind.Use)
		assert.NotEmpty(t, bind.Short)
	})
}
