package glyphforge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// axisSectionName maps an axis to its subsection under variants. The
// common axis lands in the toolchain's "design" block.
func axisSectionName(a Axis) string {
	if a == AxisCommon {
		return "design"
	}
	return string(a)
}

// RenderPlan synthesizes the build-plan text for a legacy plan. Directive
// sets are rendered verbatim in sorted order, so re-rendering an identical
// plan is byte-identical. Empty axis sections are omitted.
func RenderPlan(plan *FontPlan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[buildPlans.%s]\n", plan.PlanID)
	fmt.Fprintf(&b, "family = %q\n", plan.FamilyName)
	for _, d := range plan.TopLevelOptions.Sorted() {
		b.WriteString(d)
		b.WriteByte('\n')
	}

	for _, a := range Axes {
		set := plan.StyleDirectives[a]
		if len(set) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n[buildPlans.%s.variants.%s]\n", plan.PlanID, axisSectionName(a))
		for _, d := range set.Sorted() {
			b.WriteString(d)
			b.WriteByte('\n')
		}
	}

	if len(plan.LigatureInherits) > 0 {
		fmt.Fprintf(&b, "\n[buildPlans.%s.ligations]\n", plan.PlanID)
		names := plan.LigatureInherits.Sorted()
		if len(names) == 1 {
			fmt.Fprintf(&b, "inherits = %q\n", names[0])
		} else {
			quoted := make([]string, len(names))
			for i, n := range names {
				quoted[i] = fmt.Sprintf("%q", n)
			}
			fmt.Fprintf(&b, "inherits = [%s]\n", strings.Join(quoted, ", "))
		}
	}

	return b.String()
}

// EmitPlanFile places the build-plan file where the toolchain expects it.
// Legacy plans are synthesized; native plans are the user's file copied
// through byte-for-byte. A previous plan file is overwritten, never merged.
func EmitPlanFile(plan *FontPlan, planPath string) error {
	if err := os.MkdirAll(filepath.Dir(planPath), 0o755); err != nil {
		return fmt.Errorf("cannot create workspace dir: %w", err)
	}

	if plan.Dialect == DialectNativeTOML {
		data, err := os.ReadFile(plan.sourcePath)
		if err != nil {
			return fmt.Errorf("cannot read config %s: %w", plan.sourcePath, err)
		}
		if err := os.WriteFile(planPath, data, 0o644); err != nil {
			return fmt.Errorf("cannot write plan file %s: %w", planPath, err)
		}
		return nil
	}

	if err := os.WriteFile(planPath, []byte(RenderPlan(plan)), 0o644); err != nil {
		return fmt.Errorf("cannot write plan file %s: %w", planPath, err)
	}
	return nil
}
