package glyphforge

import (
	"fmt"
	"os"
	"os/exec"
)

// Workspace is the on-disk checkout of the Iosevka build toolchain. It is
// the only state that survives across runs; one acquired workspace is
// shared by every config processed in a run.
type Workspace struct {
	Dir       string
	RemoteURL string
	Fresh     bool // pulled or cloned during this run
}

// AcquireToolchain ensures a current toolchain checkout with its npm
// dependencies installed. Runs exactly once per invocation, before the
// first config is processed.
func AcquireToolchain(paths Paths, execCtx *Executor) (*Workspace, error) {
	ws := &Workspace{Dir: paths.IosevkaDir(), RemoteURL: iosevkaURL}

	if err := gitCloneOrPull(ws.RemoteURL, ws.Dir, execCtx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrToolAcquisition, ws.RemoteURL, err)
	}

	colArrow.Print("-> ")
	colSuccess.Println("Installing toolchain dependencies")
	cmd := exec.Command("npm", "install")
	cmd.Dir = ws.Dir
	if err := execCtx.Run(cmd); err != nil {
		return nil, fmt.Errorf("%w: npm install: %v", ErrToolAcquisition, err)
	}

	ws.Fresh = true
	return ws, nil
}

// gitCloneOrPull clones url into dir, or pulls when a checkout already
// exists there.
func gitCloneOrPull(url, dir string, execCtx *Executor) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		colArrow.Print("-> ")
		colSuccess.Printf("Cloning %s into %s\n", url, dir)
		return execCtx.Run(exec.Command("git", "clone", url, dir))
	}
	colArrow.Print("-> ")
	colSuccess.Printf("Updating %s\n", dir)
	return execCtx.Run(exec.Command("git", "-C", dir, "pull"))
}
