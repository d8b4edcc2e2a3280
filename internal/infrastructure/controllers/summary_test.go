//go:build unit

package controllers_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
	"github.com/rios0rios0/pkgscript-updater/internal/infrastructure/controllers"
)

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	target := entities.DefaultPackageTarget()
	tag := entities.ReleaseTag{Name: "v9.1.0450"}

	t.Run("should report an up to date run", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		report := &entities.RunReport{Stage: entities.StageUpToDate, Tag: tag}

		// when
		controllers.WriteSummary(&out, target, report, nil)

		// then
		assert.Contains(t, out.String(), "Vim is already at v9.1.0450")
	})

	t.Run("should report a dry run", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		report := &entities.RunReport{Stage: entities.StageDryRun, Tag: tag}

		// when
		controllers.WriteSummary(&out, target, report, nil)

		// then
		assert.Contains(t, out.String(), "[DRY RUN] Vim would be updated to v9.1.0450")
	})

	t.Run("should warn when the email was not delivered", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		report := &entities.RunReport{
			Stage:        entities.StageDone,
			Tag:          tag,
			Commit:       &entities.Commit{Hash: "abc"},
			Notification: entities.NotificationResult{Attempted: true, Err: errors.New("535 auth failed")},
		}

		// when
		controllers.WriteSummary(&out, target, report, nil)

		// then
		assert.Contains(t, out.String(), "email not sent: 535 auth failed")
	})

	t.Run("should report a published and delivered update", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		report := &entities.RunReport{
			Stage:        entities.StageDone,
			Tag:          tag,
			Commit:       &entities.Commit{Hash: "0123456789abcdef"},
			Notification: entities.NotificationResult{Attempted: true, Delivered: true},
		}

		// when
		controllers.WriteSummary(&out, target, report, nil)

		// then
		assert.Contains(t, out.String(), "✓ Vim updated to v9.1.0450 in 0123456789ab")
	})

	t.Run("should warn when the email was never attempted", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		report := &entities.RunReport{
			Stage:  entities.StagePushed,
			Tag:    tag,
			Commit: &entities.Commit{Hash: "abc"},
		}

		// when
		controllers.WriteSummary(&out, target, report, nil)

		// then
		assert.Contains(t, out.String(), "Vim updated to v9.1.0450 in abc, email not attempted")
		assert.NotContains(t, out.String(), "✓")
	})

	t.Run("should print a placeholder tag when the run failed early", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer

		// when
		controllers.WriteSummary(&out, target, nil, errors.New("boom"))

		// then
		assert.Contains(t, out.String(), "Vim - failed after stage init: boom")
	})
}
