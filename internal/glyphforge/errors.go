package glyphforge

import "errors"

// Failure taxonomy. Every stage wraps one of these sentinels so callers can
// classify the failing stage with errors.Is; any of them aborts the run.
var (
	ErrConfigFormat           = errors.New("malformed font configuration")
	ErrToolAcquisition        = errors.New("toolchain acquisition failed")
	ErrBuildFailed            = errors.New("font build failed")
	ErrUnsupportedToolVersion = errors.New("unrecognized toolchain output layout")
	ErrPatchFailed            = errors.New("glyph patching failed")
	ErrCacheRefresh           = errors.New("font cache refresh failed")
)
