package glyphforge

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// InvokeBuild runs the toolchain's build entry point for exactly one plan
// and resolves the directory its TTFs landed in. The toolchain owns
// cleanup of its own intermediate state, so nothing is removed on failure.
func InvokeBuild(ws *Workspace, planID string, execCtx *Executor) (string, error) {
	colArrow.Print("-> ")
	colSuccess.Printf("Building plan %s\n", planID)

	cmd := exec.Command("npm", "run", "build", "--", "ttf::"+planID)
	cmd.Dir = ws.Dir
	if err := execCtx.Run(cmd); err != nil {
		return "", fmt.Errorf("%w: plan %s: %v", ErrBuildFailed, planID, err)
	}

	outDir, err := resolveOutputDir(ws.Dir, planID)
	if err != nil {
		return "", err
	}
	debugf("Build output for %s: %s\n", planID, outDir)
	return outDir, nil
}

// resolveOutputDir locates the TTF output directory for a plan. The layout
// has changed across toolchain versions, so the known conventions are
// probed explicitly; an unknown layout is an error rather than a guess.
func resolveOutputDir(workspaceDir, planID string) (string, error) {
	candidates := []string{
		filepath.Join(workspaceDir, "dist", planID, "ttf"),
		filepath.Join(workspaceDir, "dist", planID, "TTF"),
	}
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("%w: plan %s produced no output under %s",
		ErrUnsupportedToolVersion, planID, filepath.Join(workspaceDir, "dist", planID))
}

// listTTFs returns the regular *.ttf files directly inside dir, sorted.
func listTTFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot read output dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && filepath.Ext(e.Name()) == ".ttf" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
