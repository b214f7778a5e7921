package glyphforge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fake external tools on PATH. Each one appends its invocation to the
// file named by GF_LOG so tests can assert what ran (and what did not).

const fakeGit = `#!/bin/sh
echo "git $*" >> "$GF_LOG"
if [ "$1" = "clone" ]; then
  mkdir -p "$3"
fi
exit 0
`

const fakeNpm = `#!/bin/sh
echo "npm $*" >> "$GF_LOG"
plan=""
for a in "$@"; do
  case "$a" in
    ttf::*) plan="${a#ttf::}" ;;
  esac
done
if [ -n "$plan" ]; then
  mkdir -p "dist/$plan/ttf"
  touch "dist/$plan/ttf/Myosevka-Regular.ttf"
fi
exit 0
`

const fakeNpmBuildFails = `#!/bin/sh
echo "npm $*" >> "$GF_LOG"
if [ "$1" = "run" ]; then
  exit 1
fi
exit 0
`

const fakeFcCache = `#!/bin/sh
echo "fc-cache $*" >> "$GF_LOG"
exit 0
`

const fakeFontforge = `#!/bin/sh
echo "fontforge $*" >> "$GF_LOG"
exit 0
`

type pipelineEnv struct {
	paths    Paths
	settings *Settings
	exec     *Executor
	binDir   string
	logPath  string
}

func newPipelineEnv(t *testing.T) *pipelineEnv {
	t.Helper()
	root := t.TempDir()
	env := &pipelineEnv{
		paths: Paths{
			ConfigDir: filepath.Join(root, "config"),
			CacheDir:  filepath.Join(root, "cache"),
			FontDir:   filepath.Join(root, "fonts"),
		},
		settings: &Settings{},
		exec:     &Executor{Context: context.Background(), Quiet: true},
		binDir:   filepath.Join(root, "bin"),
		logPath:  filepath.Join(root, "tools.log"),
	}
	require.NoError(t, os.MkdirAll(env.paths.ConfigDir, 0o755))
	require.NoError(t, os.MkdirAll(env.binDir, 0o755))
	t.Setenv("PATH", env.binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	t.Setenv("GF_LOG", env.logPath)
	env.fakeTool(t, "git", fakeGit)
	env.fakeTool(t, "npm", fakeNpm)
	env.fakeTool(t, "fc-cache", fakeFcCache)
	env.fakeTool(t, "fontforge", fakeFontforge)
	return env
}

func (env *pipelineEnv) fakeTool(t *testing.T, name, script string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(env.binDir, name), []byte(script), 0o755))
}

func (env *pipelineEnv) config(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(env.paths.ConfigDir, name), []byte(content), 0o644))
}

func (env *pipelineEnv) toolLog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(env.logPath)
	if os.IsNotExist(err) {
		return ""
	}
	require.NoError(t, err)
	return string(data)
}

func (env *pipelineEnv) clearToolLog(t *testing.T) {
	t.Helper()
	require.NoError(t, os.WriteFile(env.logPath, nil, 0o644))
}

func TestDiscoverConfigs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.toml", "a.ini", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.ini"), 0o755))

	got, err := discoverConfigs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.ini"),
		filepath.Join(dir, "b.toml"),
	}, got)

	got, err = discoverConfigs(filepath.Join(dir, "does-not-exist"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunAllLegacyPipeline(t *testing.T) {
	env := newPipelineEnv(t)
	env.config(t, "custom.ini", "[options]\nname=myosevka\n")

	require.NoError(t, RunAll(env.paths, env.settings, env.exec))

	log := env.toolLog(t)
	assert.Contains(t, log, "git clone")
	assert.Contains(t, log, "npm install")
	assert.Contains(t, log, "npm run build -- ttf::myosevka")
	assert.Contains(t, log, "fc-cache -f")

	// No patching was requested: the patcher must not be touched at all.
	assert.NotContains(t, log, "fontforge")
	assert.NoDirExists(t, env.paths.PatcherDir())

	// The artifact was moved, not copied.
	installed := filepath.Join(env.paths.FontDir, "Myosevka-Regular.ttf")
	assert.FileExists(t, installed)
	assert.NoFileExists(t, filepath.Join(env.paths.IosevkaDir(), "dist", "myosevka", "ttf", "Myosevka-Regular.ttf"))

	// The emitted plan landed in the workspace root.
	assert.FileExists(t, filepath.Join(env.paths.IosevkaDir(), planFileName))
}

func TestRunAllReusesCheckoutAcrossRuns(t *testing.T) {
	env := newPipelineEnv(t)
	env.config(t, "custom.ini", "[options]\nname=myosevka\n")

	require.NoError(t, RunAll(env.paths, env.settings, env.exec))
	env.clearToolLog(t)

	require.NoError(t, RunAll(env.paths, env.settings, env.exec))
	log := env.toolLog(t)
	assert.Contains(t, log, "git -C "+env.paths.IosevkaDir()+" pull")
	assert.NotContains(t, log, "git clone")
}

func TestRunAllBuildFailureHaltsPipeline(t *testing.T) {
	env := newPipelineEnv(t)
	env.fakeTool(t, "npm", fakeNpmBuildFails)
	env.config(t, "a.ini", "[options]\nname=alpha\n")
	env.config(t, "b.ini", "[options]\nname=beta\n")

	err := RunAll(env.paths, env.settings, env.exec)
	require.ErrorIs(t, err, ErrBuildFailed)

	log := env.toolLog(t)
	assert.Contains(t, log, "ttf::alpha")
	assert.NotContains(t, log, "ttf::beta", "remaining configs must not be attempted")
	assert.NotContains(t, log, "fontforge")
	assert.NotContains(t, log, "fc-cache")

	entries, err := os.ReadDir(env.paths.FontDir)
	if err == nil {
		assert.Empty(t, entries, "no artifacts may be installed after a failed build")
	}
}

func TestRunAllConfigErrorPrecedesExternalProcesses(t *testing.T) {
	env := newPipelineEnv(t)
	env.config(t, "two.toml", "[buildPlans.alpha]\n[buildPlans.beta]\n")

	err := RunAll(env.paths, env.settings, env.exec)
	require.ErrorIs(t, err, ErrConfigFormat)
	assert.Empty(t, env.toolLog(t), "no subprocess may run for a malformed config")
}

func TestRunAllPatchPipeline(t *testing.T) {
	env := newPipelineEnv(t)
	env.config(t, "custom.ini", "[options]\nname=myosevka\nnerdfont=powerline material\n\n[common]\nsp-term\n")

	// Patcher comes from a pre-seeded git checkout; the fake git pull
	// leaves it alone.
	env.settings.PatcherFromGit = true
	require.NoError(t, os.MkdirAll(env.paths.PatcherDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.paths.PatcherDir(), "font-patcher"), []byte("#"), 0o755))

	require.NoError(t, RunAll(env.paths, env.settings, env.exec))

	log := env.toolLog(t)
	assert.Contains(t, log, "fontforge -script "+filepath.Join(env.paths.PatcherDir(), "font-patcher"))
	assert.Contains(t, log, "--careful")
	assert.Contains(t, log, "--progressbars")
	assert.Contains(t, log, "--mono")
	assert.Contains(t, log, "--powerline")
	assert.Contains(t, log, "--material")
	assert.Contains(t, log, "--outputdir")

	assert.FileExists(t, filepath.Join(env.paths.FontDir, "Myosevka-Regular.ttf"))
}

func TestRunAllNoConfigsIsNoOp(t *testing.T) {
	env := newPipelineEnv(t)

	require.NoError(t, RunAll(env.paths, env.settings, env.exec))
	assert.Empty(t, env.toolLog(t), "nothing to do means no subprocesses")
}
