package glyphforge

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// InstallFonts moves every generated TTF from outDir into fontDir and
// refreshes the system font cache. Files are moved, not copied: the
// toolchain's output tree must not retain the artifact afterward.
func InstallFonts(outDir, fontDir string, execCtx *Executor) error {
	files, err := listTTFs(outDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no font files found in %s", outDir)
	}

	if err := os.MkdirAll(fontDir, 0o755); err != nil {
		return fmt.Errorf("cannot create font dir %s: %w", fontDir, err)
	}

	// Interrupting a half-moved font set leaves the user's font dir in a
	// mixed state, so the move phase blocks the first Ctrl+C.
	isCriticalAtomic.Store(1)
	defer isCriticalAtomic.Store(0)

	for _, src := range files {
		dst := filepath.Join(fontDir, filepath.Base(src))
		colArrow.Print("-> ")
		colSuccess.Printf("Installing %s\n", filepath.Base(src))
		if err := moveFile(src, dst); err != nil {
			return fmt.Errorf("cannot install %s: %w", src, err)
		}
	}

	colArrow.Print("-> ")
	colSuccess.Println("Refreshing font cache")
	if err := execCtx.Run(exec.Command("fc-cache", "-f")); err != nil {
		return fmt.Errorf("%w: fc-cache: %v", ErrCacheRefresh, err)
	}
	return nil
}

// moveFile renames src to dst, falling back to copy-then-remove when the
// two live on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
