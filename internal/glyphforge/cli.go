package glyphforge

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gookit/color"
)

// printHelp prints the commands table
func printHelp() {
	colSuccess.Println("Usage: glyphforge [command]")
	fmt.Println()
	colInfo.Println("Available Commands:")

	cmds := []struct {
		Cmd  string
		Desc string
	}{
		{"(none)", "Build, patch and install every font config"},
		{"version", "Version information"},
		{"clean", "Remove the cached patcher and toolchain build output"},
		{"help", "Show this help"},
	}
	for _, c := range cmds {
		fmt.Print("  ")
		color.Bold.Printf("%-12s", c.Cmd)
		colInfo.Println(c.Desc)
	}
	fmt.Println()
}

// Main is the CLI entrypoint for cmd/glyphforge.
func Main() {
	// 1. CONTEXT AND SIGNAL SETUP
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		for {
			select {
			case sig := <-sigs:
				if isCriticalAtomic.Load() == 1 {
					// Block the first signal while fonts are being moved;
					// a second one forces exit.
					colArrow.Print("\n-> ")
					colError.Printf("Installing fonts. Press Ctrl+C AGAIN to force exit NOW.\n")
					select {
					case <-sigs:
						os.Exit(130)
					case <-time.After(5 * time.Second):
						continue
					case <-ctx.Done():
						return
					}
				}

				colArrow.Print("\n-> ")
				color.Danger.Printf("Received %v. Cancelling gracefully\n", sig)
				cancel()
				time.Sleep(100 * time.Millisecond)
				select {
				case <-sigs:
					os.Exit(130)
				case <-time.After(2 * time.Second):
					os.Exit(1)
				}

			case <-ctx.Done():
				return
			}
		}
	}()

	// 2. PATHS AND SETTINGS
	paths, err := ResolvePaths()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if v := os.Getenv("GLYPHFORGE_CONFIG_DIR"); v != "" {
		paths.ConfigDir = v
	}
	settings, err := loadSettings(paths.SettingsFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	paths = applySettings(paths, settings)

	UserExec = &Executor{Context: ctx}

	// 3. DISPATCH
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "":
		if err := RunAll(paths, settings, UserExec); err != nil {
			colArrow.Print("-> ")
			colError.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		colArrow.Print("-> ")
		colSuccess.Println("All fonts installed")
	case "version", "--version":
		fmt.Printf("glyphforge %s (%s, %s/%s, built %s)\n",
			version, runtime.Version(), runtime.GOOS, runtime.GOARCH, buildDate)
	case "clean":
		if err := handleCleanCommand(paths); err != nil {
			colArrow.Print("-> ")
			colError.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printHelp()
		os.Exit(1)
	}
}

// handleCleanCommand removes rebuildable cache state: the extracted
// patcher, its downloaded archive and the toolchain's dist output. The
// toolchain checkout itself stays (a clone is expensive).
func handleCleanCommand(paths Paths) error {
	targets := []string{
		paths.PatcherDir(),
		filepath.Join(paths.CacheDir, filepath.Base(patcherURL)),
		sumFilePath(filepath.Join(paths.CacheDir, filepath.Base(patcherURL))),
		filepath.Join(paths.IosevkaDir(), "dist"),
	}
	for _, t := range targets {
		if _, err := os.Stat(t); os.IsNotExist(err) {
			continue
		}
		colArrow.Print("-> ")
		colSuccess.Printf("Removing %s\n", t)
		if err := os.RemoveAll(t); err != nil {
			return fmt.Errorf("cannot remove %s: %w", t, err)
		}
	}
	return nil
}
