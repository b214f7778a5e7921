package glyphforge

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"lukechampine.com/blake3"
)

// PatchFonts runs the glyph patcher over every TTF in outDir, replacing
// each file in place with its patched version. Only called when the plan
// opted into patching (NerdFontOptions != nil). Fails fast on the first
// file that cannot be patched.
func PatchFonts(plan *FontPlan, outDir string, paths Paths, settings *Settings, execCtx *Executor) error {
	script, err := ensurePatcher(paths, settings, execCtx)
	if err != nil {
		return err
	}

	files, err := listTTFs(outDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPatchFailed, err)
	}

	mono := plan.Mono()
	for _, file := range files {
		if err := patchOne(plan, script, file, outDir, mono, execCtx); err != nil {
			return err
		}
	}
	return nil
}

func patchOne(plan *FontPlan, script, file, outDir string, mono bool, execCtx *Executor) error {
	base := filepath.Base(file)
	expected, err := patchedFileName(plan.FamilyName, base)
	if err != nil {
		return err
	}

	colArrow.Print("-> ")
	colSuccess.Printf("Patching %s\n", base)

	args := []string{"-script", script, file, "--careful", "--progressbars"}
	if mono {
		args = append(args, "--mono")
	}
	for _, opt := range plan.NerdFontOptions {
		args = append(args, "--"+opt)
	}
	args = append(args, "--outputdir", outDir)

	cmd := exec.Command("fontforge", args...)
	if err := execCtx.Run(cmd); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPatchFailed, base, err)
	}

	// The patcher writes under its own naming; the original filename must
	// end up holding the patched result with no stray intermediate left.
	patchedPath := filepath.Join(outDir, expected)
	if _, err := os.Stat(patchedPath); err != nil {
		return fmt.Errorf("%w: %s: patcher did not produce %s", ErrPatchFailed, base, expected)
	}
	if patchedPath != file {
		if err := os.Rename(patchedPath, file); err != nil {
			return fmt.Errorf("%w: cannot move %s over %s: %v", ErrPatchFailed, expected, base, err)
		}
	}
	return nil
}

// patchedFileName computes the name the patcher gives its output: the
// family with spaces removed plus the style suffix after the first '-'
// of the original filename.
func patchedFileName(family, origBase string) (string, error) {
	i := strings.Index(origBase, "-")
	if i < 0 {
		return "", fmt.Errorf("%w: cannot derive style from %q: no '-' in filename", ErrPatchFailed, origBase)
	}
	return strings.ReplaceAll(family, " ", "") + "-" + origBase[i+1:], nil
}

// ensurePatcher makes the patch tool available locally and returns the
// script path. Release archives are cached next to a blake3 sum so a
// truncated download gets refetched instead of reused.
func ensurePatcher(paths Paths, settings *Settings, execCtx *Executor) (string, error) {
	dir := paths.PatcherDir()
	script := filepath.Join(dir, "font-patcher")

	if settings.PatcherFromGit {
		if err := gitCloneOrPull(nerdFontsURL, dir, execCtx); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrPatchFailed, nerdFontsURL, err)
		}
		if _, err := os.Stat(script); err != nil {
			return "", fmt.Errorf("%w: checkout %s has no font-patcher script", ErrPatchFailed, dir)
		}
		return script, nil
	}

	if _, err := os.Stat(script); err == nil {
		debugf("Patcher already cached: %s\n", script)
		return script, nil
	}

	archive := filepath.Join(paths.CacheDir, filepath.Base(patcherURL))
	if !cachedArchiveValid(archive) {
		_ = os.Remove(archive)
		colArrow.Print("-> ")
		colSuccess.Printf("Fetching patcher: %s\n", patcherURL)
		if err := downloadFile(patcherURL, archive, execCtx); err != nil {
			return "", fmt.Errorf("%w: %v", ErrPatchFailed, err)
		}
		if err := recordArchiveSum(archive); err != nil {
			return "", fmt.Errorf("%w: %v", ErrPatchFailed, err)
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPatchFailed, err)
	}
	if err := extractArchive(archive, dir); err != nil {
		return "", fmt.Errorf("%w: extract %s: %v", ErrPatchFailed, archive, err)
	}
	if _, err := os.Stat(script); err != nil {
		return "", fmt.Errorf("%w: archive %s has no font-patcher script", ErrPatchFailed, archive)
	}
	return script, nil
}

func sumFilePath(archive string) string {
	return archive + ".b3"
}

// cachedArchiveValid reports whether archive exists and matches its
// recorded blake3 sum.
func cachedArchiveValid(archive string) bool {
	want, err := os.ReadFile(sumFilePath(archive))
	if err != nil {
		return false
	}
	got, err := hashFile(archive)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(want)) == got
}

func recordArchiveSum(archive string) error {
	sum, err := hashFile(archive)
	if err != nil {
		return err
	}
	return os.WriteFile(sumFilePath(archive), []byte(sum+"\n"), 0o644)
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := blake3.New(32, nil)
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
