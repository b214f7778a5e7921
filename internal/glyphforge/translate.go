package glyphforge

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Dialect tags which config format a user file is written in. It is
// resolved once per file from the extension; everything downstream
// switches on the tag instead of re-sniffing.
type Dialect int

const (
	DialectLegacyINI Dialect = iota
	DialectNativeTOML
)

func (d Dialect) String() string {
	if d == DialectNativeTOML {
		return "toml"
	}
	return "ini"
}

// dialectForFile maps a file extension to its dialect. The second return
// is false for files the driver should not pick up at all.
func dialectForFile(path string) (Dialect, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini":
		return DialectLegacyINI, true
	case ".toml":
		return DialectNativeTOML, true
	}
	return 0, false
}

// defaultPlanID is used when a legacy config carries no name option.
const defaultPlanID = "myosevka"

var titleCaser = cases.Title(language.English)

// Translate parses a user config file into a FontPlan.
func Translate(path string) (*FontPlan, error) {
	dialect, ok := dialectForFile(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown config extension", ErrConfigFormat, path)
	}
	var (
		plan *FontPlan
		err  error
	)
	switch dialect {
	case DialectNativeTOML:
		plan, err = translateNativeTOML(path)
	default:
		plan, err = translateLegacyINI(path)
	}
	if err != nil {
		return nil, err
	}
	plan.Dialect = dialect
	plan.sourcePath = path
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plan, nil
}

// renderDirective turns a raw key/value pair into the directive string
// the toolchain's plan format expects. Values are rendered as quoted
// TOML strings; a missing value yields a bare flag.
func renderDirective(key, value string, hasValue bool) string {
	if !hasValue {
		return key
	}
	return fmt.Sprintf("%s = %q", key, value)
}

// legacy section names with axis meaning
var axisSections = map[string]Axis{
	"common":  AxisCommon,
	"upright": AxisUpright,
	"italic":  AxisItalic,
	"oblique": AxisOblique,
}

// translateLegacyINI parses the legacy key/value dialect.
//
// The format is a sectioned key/value file: `;` introduces a comment,
// keys may carry a value or stand alone as bare flags. Bare flags must
// survive verbatim (sp-term in [common] drives mono detection
// downstream), which is why this is a plain scanner and not an INI
// library decode.
func translateLegacyINI(path string) (*FontPlan, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open config %s: %w", path, err)
	}
	defer file.Close()

	plan := NewFontPlan(defaultPlanID)
	section := ""

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.Index(line, ";"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		if section == "" {
			debugf("%s: ignoring key %q outside any section\n", path, line)
			continue
		}

		key, value, hasValue := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" {
			return nil, fmt.Errorf("%w: %s: directive with empty key in [%s]", ErrConfigFormat, path, section)
		}

		if axis, ok := axisSections[section]; ok {
			plan.StyleDirectives[axis].Add(renderDirective(key, value, hasValue))
			continue
		}

		switch section {
		case "options":
			switch key {
			case "name":
				plan.PlanID = value
			case "nerdfont":
				opts := strings.Fields(value)
				if opts == nil {
					opts = []string{}
				}
				plan.NerdFontOptions = opts
			case "ligset":
				plan.LigatureInherits.Add(value)
			default:
				plan.TopLevelOptions.Add(renderDirective(key, value, hasValue))
			}
		case "ligations":
			// Alternative spelling of options.ligset kept for older
			// configs that declared inheritance in its own section.
			if key == "inherits" || key == "ligset" {
				for _, name := range strings.Fields(value) {
					plan.LigatureInherits.Add(name)
				}
			} else {
				debugf("%s: ignoring key %q in [ligations]\n", path, key)
			}
		default:
			// Unknown sections parse fine but carry no meaning yet.
			debugf("%s: ignoring directive %q in unknown section [%s]\n", path, key, section)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}

	// The legacy dialect derives the display family from the plan key.
	plan.FamilyName = titleCaser.String(plan.PlanID)
	return plan, nil
}

// Native dialect: the narrow slice of the upstream build-plan schema the
// pipeline has to act on. Everything else passes through untouched.
type nativePlanDoc struct {
	BuildPlans map[string]nativePlanEntry `toml:"buildPlans"`
}

type nativePlanEntry struct {
	Family  string     `toml:"family"`
	Spacing string     `toml:"spacing"`
	Extra   *nativeExt `toml:"glyphforge"`
}

type nativeExt struct {
	NerdFont []string `toml:"nerdfont"`
}

// translateNativeTOML parses a native build-plan file. The file itself is
// later copied to the toolchain byte-for-byte; the plan here only carries
// what the patcher and installer need to know about it.
func translateNativeTOML(path string) (*FontPlan, error) {
	var doc nativePlanDoc
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigFormat, path, err)
	}

	if n := len(doc.BuildPlans); n != 1 {
		return nil, fmt.Errorf("%w: %s: expected exactly one buildPlans entry, found %d", ErrConfigFormat, path, n)
	}

	var plan *FontPlan
	for id, entry := range doc.BuildPlans {
		plan = NewFontPlan(id)
		plan.FamilyName = entry.Family
		if plan.FamilyName == "" {
			plan.FamilyName = id
		}
		switch entry.Spacing {
		case "fontconfig-mono", "term":
			plan.StyleDirectives[AxisCommon].Add("sp-term")
		case "fixed":
			plan.StyleDirectives[AxisCommon].Add("sp-fixed")
		}
		if entry.Extra != nil && entry.Extra.NerdFont != nil {
			plan.NerdFontOptions = entry.Extra.NerdFont
		}
	}
	return plan, nil
}
