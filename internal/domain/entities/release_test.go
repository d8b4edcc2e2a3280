//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
)

func TestNewReleaseTag(t *testing.T) {
	t.Parallel()

	t.Run("should derive the numeric version from a prefixed tag", func(t *testing.T) {
		t.Parallel()

		// given
		name := "v9.1.0450"

		// when
		tag, err := entities.NewReleaseTag(name)

		// then
		require.NoError(t, err)
		assert.Equal(t, "v9.1.0450", tag.String())
		assert.Equal(t, "9.1.0450", tag.Version())
	})

	t.Run("should keep an unprefixed tag as is", func(t *testing.T) {
		t.Parallel()

		// given
		name := "2.4.1"

		// when
		tag, err := entities.NewReleaseTag(name)

		// then
		require.NoError(t, err)
		assert.Equal(t, "2.4.1", tag.Version())
	})

	t.Run("should return upstream fetch error for an empty tag", func(t *testing.T) {
		t.Parallel()

		// given
		name := "  "

		// when
		_, err := entities.NewReleaseTag(name)

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrUpstreamFetch)
	})

	t.Run("should return upstream fetch error for a tag without digits", func(t *testing.T) {
		t.Parallel()

		// given
		name := "nightly"

		// when
		_, err := entities.NewReleaseTag(name)

		// then
		require.Error(t, err)
		assert.ErrorIs(t, err, entities.ErrUpstreamFetch)
	})
}

func TestReleaseTagIsOlderThan(t *testing.T) {
	t.Parallel()

	t.Run("should report an older patch level", func(t *testing.T) {
		t.Parallel()

		// given
		tag := entities.ReleaseTag{Name: "v9.1.0450"}

		// when
		older := tag.IsOlderThan("9.1.0500")

		// then
		assert.True(t, older)
	})

	t.Run("should not report a newer or equal version", func(t *testing.T) {
		t.Parallel()

		// given
		tag := entities.ReleaseTag{Name: "v9.1.0450"}

		// when
		newer := tag.IsOlderThan("9.1.0400")
		same := tag.IsOlderThan("9.1.0450")

		// then
		assert.False(t, newer)
		assert.False(t, same)
	})

	t.Run("should not report versions that do not parse", func(t *testing.T) {
		t.Parallel()

		// given
		tag := entities.ReleaseTag{Name: "v9.1.0450"}

		// when
		older := tag.IsOlderThan("git-snapshot")

		// then
		assert.False(t, older)
	})
}
