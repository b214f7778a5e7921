package glyphforge

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Paths holds every directory the pipeline touches, resolved once at
// startup and passed down explicitly so tests can inject temp dirs.
type Paths struct {
	ConfigDir string // user font configs (*.ini / *.toml) + glyphforge.conf
	CacheDir  string // Iosevka checkout and patcher cache, persistent across runs
	FontDir   string // final artifact destination
}

func (p Paths) IosevkaDir() string {
	return filepath.Join(p.CacheDir, "iosevka")
}

func (p Paths) PatcherDir() string {
	return filepath.Join(p.CacheDir, "font-patcher")
}

func (p Paths) SettingsFile() string {
	return filepath.Join(p.ConfigDir, "glyphforge.conf")
}

func (p Paths) PlanFile() string {
	return filepath.Join(p.IosevkaDir(), planFileName)
}

// ResolvePaths computes the platform-standard user directories.
func ResolvePaths() (Paths, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("cannot resolve user config dir: %w", err)
	}
	cache, err := os.UserCacheDir()
	if err != nil {
		return Paths{}, fmt.Errorf("cannot resolve user cache dir: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("cannot resolve home dir: %w", err)
	}
	return Paths{
		ConfigDir: filepath.Join(cfg, "glyphforge"),
		CacheDir:  filepath.Join(cache, "glyphforge"),
		FontDir:   filepath.Join(home, ".local", "share", "fonts"),
	}, nil
}

// Settings are the tool's own knobs, read from glyphforge.conf.
// They never affect plan semantics, only where things live and which
// remotes to pull from.
type Settings struct {
	CacheDir       string `ini:"cache_dir"`
	FontDir        string `ini:"font_dir"`
	IosevkaURL     string `ini:"iosevka_url"`
	NerdFontsURL   string `ini:"nerd_fonts_url"`
	PatcherURL     string `ini:"patcher_url"`
	PatcherFromGit bool   `ini:"patcher_from_git"`
	Debug          bool   `ini:"debug"`
}

// loadSettings reads glyphforge.conf if present and merges GLYPHFORGE_*
// environment overrides on top. A missing file is not an error.
func loadSettings(path string) (*Settings, error) {
	s := &Settings{}

	if _, err := os.Stat(path); err == nil {
		f, err := ini.Load(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}
		if err := f.Section("").MapTo(s); err != nil {
			return nil, fmt.Errorf("cannot parse %s: %w", path, err)
		}
	}

	mergeEnvOverrides(s)
	return s, nil
}

// Merge GLYPHFORGE_* env overrides
func mergeEnvOverrides(s *Settings) {
	if v := os.Getenv("GLYPHFORGE_CACHE_DIR"); v != "" {
		s.CacheDir = v
	}
	if v := os.Getenv("GLYPHFORGE_FONT_DIR"); v != "" {
		s.FontDir = v
	}
	if v := os.Getenv("GLYPHFORGE_IOSEVKA_URL"); v != "" {
		s.IosevkaURL = v
	}
	if v := os.Getenv("GLYPHFORGE_NERD_FONTS_URL"); v != "" {
		s.NerdFontsURL = v
	}
	if v := os.Getenv("GLYPHFORGE_PATCHER_URL"); v != "" {
		s.PatcherURL = v
	}
	if v := os.Getenv("GLYPHFORGE_PATCHER_FROM_GIT"); v == "1" {
		s.PatcherFromGit = true
	}
	if v := os.Getenv("GLYPHFORGE_DEBUG"); v == "1" {
		s.Debug = true
	}
}

// applySettings folds settings into the resolved paths and globals.
func applySettings(p Paths, s *Settings) Paths {
	if s.CacheDir != "" {
		p.CacheDir = s.CacheDir
	}
	if s.FontDir != "" {
		p.FontDir = s.FontDir
	}
	if s.IosevkaURL != "" {
		iosevkaURL = s.IosevkaURL
	}
	if s.NerdFontsURL != "" {
		nerdFontsURL = s.NerdFontsURL
	}
	if s.PatcherURL != "" {
		patcherURL = s.PatcherURL
	}
	if s.Debug {
		Debug = true
	}
	return p
}
