package glyphforge

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// Executor provides a consistent interface for executing external commands.
// Font builds can run for many minutes, so children are isolated in their
// own process group and the whole group is killed on context cancellation.
type Executor struct {
	Context context.Context // The context to use for cancellation
	Quiet   bool            // Quiet discards the command's stdout/stderr
}

func NewExecutor(ctx context.Context) *Executor {
	return &Executor{Context: ctx}
}

// Run executes cmd, wiring up stdio and watching the context for cancel.
func (e *Executor) Run(cmd *exec.Cmd) error {
	// Phase 0: wire up stdio
	if cmd.Stdin == nil {
		cmd.Stdin = os.Stdin
	}
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if e.Quiet {
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
	}

	// Phase 1: rebuild the invocation on our context
	finalCmd := exec.CommandContext(e.Context, cmd.Path, cmd.Args[1:]...)
	finalCmd.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		finalCmd.Env = cmd.Env
	} else {
		finalCmd.Env = os.Environ()
	}
	finalCmd.Stdin = cmd.Stdin
	finalCmd.Stdout = cmd.Stdout
	finalCmd.Stderr = cmd.Stderr

	// Phase 2: isolate process-group so we can clean up on cancel
	finalCmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// Phase 3: start, cancel watcher, wait
	if err := finalCmd.Start(); err != nil {
		return fmt.Errorf("failed to start command: %w", err)
	}
	pgid := finalCmd.Process.Pid

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-e.Context.Done():
			syscall.Kill(-pgid, syscall.SIGKILL)
		case <-done:
		}
	}()

	if waitErr := finalCmd.Wait(); waitErr != nil {
		if e.Context.Err() != nil {
			time.Sleep(100 * time.Millisecond)
			return fmt.Errorf("command aborted: %v", e.Context.Err())
		}
		return waitErr
	}
	return nil
}
