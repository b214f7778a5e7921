package glyphforge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchedFileName(t *testing.T) {
	name, err := patchedFileName("Myosevka", "Myosevka-Regular.ttf")
	require.NoError(t, err)
	assert.Equal(t, "Myosevka-Regular.ttf", name)

	// Spaces in the family are removed; the suffix comes from the
	// original filename, not the family.
	name, err = patchedFileName("Sevka Custom", "SevkaCustom-Bold-Italic.ttf")
	require.NoError(t, err)
	assert.Equal(t, "SevkaCustom-Bold-Italic.ttf", name)

	name, err = patchedFileName("Other Family", "Myosevka-Light.ttf")
	require.NoError(t, err)
	assert.Equal(t, "OtherFamily-Light.ttf", name)
}

func TestPatchedFileNameRequiresStyleSuffix(t *testing.T) {
	_, err := patchedFileName("Myosevka", "Myosevka.ttf")
	require.ErrorIs(t, err, ErrPatchFailed)
}

func TestArchiveSumRoundTrip(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "FontPatcher.zip")
	require.NoError(t, os.WriteFile(archive, []byte("payload"), 0o644))

	assert.False(t, cachedArchiveValid(archive), "no recorded sum yet")

	require.NoError(t, recordArchiveSum(archive))
	assert.True(t, cachedArchiveValid(archive))

	// A corrupted archive must not be reused.
	require.NoError(t, os.WriteFile(archive, []byte("truncated"), 0o644))
	assert.False(t, cachedArchiveValid(archive))
}
