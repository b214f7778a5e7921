package glyphforge

import (
	"fmt"
	"sort"
	"strings"
)

// Axis is one of the four fixed style dimensions a directive can target.
type Axis string

const (
	AxisCommon  Axis = "common"
	AxisUpright Axis = "upright"
	AxisItalic  Axis = "italic"
	AxisOblique Axis = "oblique"
)

// Axes in emission order.
var Axes = [4]Axis{AxisCommon, AxisUpright, AxisItalic, AxisOblique}

// DirectiveSet is an unordered, duplicate-free collection of directive
// strings (bare flags or pre-rendered `key = "value"` pairs).
type DirectiveSet map[string]struct{}

func (s DirectiveSet) Add(d string) {
	s[d] = struct{}{}
}

func (s DirectiveSet) Has(d string) bool {
	_, ok := s[d]
	return ok
}

// Sorted returns the directives in a stable order for emission.
func (s DirectiveSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// FontPlan is the normalized description of one requested font build,
// produced by the translator and consumed read-only downstream.
type FontPlan struct {
	PlanID           string
	FamilyName       string
	StyleDirectives  map[Axis]DirectiveSet
	TopLevelOptions  DirectiveSet
	LigatureInherits DirectiveSet

	// NerdFontOptions controls glyph patching: nil means do not patch,
	// an empty (non-nil) slice means patch with default glyph sets.
	NerdFontOptions []string

	// Source dialect; native plans are copied through to the toolchain
	// verbatim instead of being re-synthesized.
	Dialect Dialect

	// sourcePath is the user config file the plan came from (needed for
	// the native passthrough copy).
	sourcePath string
}

// NewFontPlan returns a plan with all four axis sets present.
func NewFontPlan(id string) *FontPlan {
	p := &FontPlan{
		PlanID:           id,
		StyleDirectives:  make(map[Axis]DirectiveSet, len(Axes)),
		TopLevelOptions:  make(DirectiveSet),
		LigatureInherits: make(DirectiveSet),
	}
	for _, a := range Axes {
		p.StyleDirectives[a] = make(DirectiveSet)
	}
	return p
}

// Mono reports whether the patcher must run in monospace mode: true iff
// the common axis carries sp-term or sp-fixed.
func (p *FontPlan) Mono() bool {
	common := p.StyleDirectives[AxisCommon]
	return common.Has("sp-term") || common.Has("sp-fixed")
}

// WantsPatch reports whether the glyph-patch stage runs at all.
func (p *FontPlan) WantsPatch() bool {
	return p.NerdFontOptions != nil
}

// Validate checks the invariants the emitter and invoker rely on: the
// plan id names the build-plan key, the output subdirectory and part of
// the artifact filenames, so it must be non-empty and path-safe.
func (p *FontPlan) Validate() error {
	if p.PlanID == "" {
		return fmt.Errorf("%w: empty plan name", ErrConfigFormat)
	}
	if strings.ContainsAny(p.PlanID, "/\\") || p.PlanID == "." || p.PlanID == ".." {
		return fmt.Errorf("%w: plan name %q is not filesystem-safe", ErrConfigFormat, p.PlanID)
	}
	for _, a := range Axes {
		if p.StyleDirectives[a] == nil {
			return fmt.Errorf("%w: missing %s axis set", ErrConfigFormat, a)
		}
	}
	return nil
}
