package glyphforge

import (
	"fmt"
	"sync/atomic"

	"github.com/gookit/color"
)

// GLOBAL STATE
// We use a value of 1 for critical and 0 for non-critical/default.
var isCriticalAtomic atomic.Int32

// Global variables
var (
	Debug     bool
	version   = "dev"     // overridden at build time
	buildDate = "unknown" // overridden at build time

	// Default remotes; overridable via glyphforge.conf or GLYPHFORGE_* env.
	iosevkaURL   = "https://github.com/be5invis/Iosevka.git"
	nerdFontsURL = "https://github.com/ryanoasis/nerd-fonts.git"
	patcherURL   = "https://github.com/ryanoasis/nerd-fonts/releases/latest/download/FontPatcher.zip"

	// Global executor (assigned in Main)
	UserExec *Executor
)

// Name of the build-plan file the Iosevka toolchain reads from its
// working directory root.
const planFileName = "private-build-plans.toml"

// color helpers
var (
	colInfo    = color.Info // style provided by gookit/color
	colWarn    = color.Warn
	colError   = color.Error
	colSuccess = color.HEX("#1976D2")
	colArrow   = color.HEX("#FFEB3B")
)

// color-compatible printer interface (works with *color.Theme and *color.Style)
type colorPrinter interface {
	Printf(format string, a ...any)
	Println(a ...any)
}

// cPrintf prints with a colored style or falls back to fmt.Printf when nil
func cPrintf(p colorPrinter, format string, a ...any) {
	if p == nil {
		fmt.Printf(format, a...)
		return
	}
	p.Printf(format, a...)
}

// debugf prints debug messages when Debug is true
func debugf(format string, args ...any) {
	if Debug {
		fmt.Printf(format, args...)
	}
}
