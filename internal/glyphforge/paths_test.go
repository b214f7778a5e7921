package glyphforge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	s, err := loadSettings(filepath.Join(t.TempDir(), "glyphforge.conf"))
	require.NoError(t, err)
	assert.Equal(t, &Settings{}, s)
}

func TestLoadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glyphforge.conf")
	require.NoError(t, os.WriteFile(path, []byte(`
# where things live
cache_dir = /tmp/gf-cache
font_dir  = /tmp/gf-fonts
patcher_from_git = true
`), 0o644))

	s, err := loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/gf-cache", s.CacheDir)
	assert.Equal(t, "/tmp/gf-fonts", s.FontDir)
	assert.True(t, s.PatcherFromGit)
}

func TestLoadSettingsEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glyphforge.conf")
	require.NoError(t, os.WriteFile(path, []byte("cache_dir = /from/file\n"), 0o644))
	t.Setenv("GLYPHFORGE_CACHE_DIR", "/from/env")
	t.Setenv("GLYPHFORGE_IOSEVKA_URL", "https://example.com/fork.git")

	s, err := loadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", s.CacheDir, "env wins over the file")
	assert.Equal(t, "https://example.com/fork.git", s.IosevkaURL)
}

func TestApplySettings(t *testing.T) {
	p := Paths{ConfigDir: "/c", CacheDir: "/cache", FontDir: "/fonts"}
	p = applySettings(p, &Settings{CacheDir: "/other-cache"})

	assert.Equal(t, "/other-cache", p.CacheDir)
	assert.Equal(t, "/fonts", p.FontDir)
	assert.Equal(t, filepath.Join("/other-cache", "iosevka"), p.IosevkaDir())
	assert.Equal(t, filepath.Join("/other-cache", "font-patcher"), p.PatcherDir())
}
