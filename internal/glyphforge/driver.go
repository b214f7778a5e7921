package glyphforge

import (
	"fmt"
	"os"
	"path/filepath"
)

// discoverConfigs lists the *.ini and *.toml files directly inside the
// config directory, in name order. A missing directory means no configs.
func discoverConfigs(configDir string) ([]string, error) {
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot read config dir %s: %w", configDir, err)
	}

	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if _, ok := dialectForFile(e.Name()); ok {
			out = append(out, filepath.Join(configDir, e.Name()))
		}
	}
	return out, nil
}

// RunAll executes the whole pipeline. Every config is translated up front,
// so a malformed file fails the run before any external process is
// invoked; then the toolchain is acquired once and each plan is built in
// config order. The first failing plan aborts the run; remaining plans
// are not attempted.
func RunAll(paths Paths, settings *Settings, execCtx *Executor) error {
	configs, err := discoverConfigs(paths.ConfigDir)
	if err != nil {
		return err
	}
	if len(configs) == 0 {
		colArrow.Print("-> ")
		colWarn.Printf("No font configs found in %s\n", paths.ConfigDir)
		return nil
	}

	plans := make([]*FontPlan, 0, len(configs))
	for _, cfg := range configs {
		plan, err := Translate(cfg)
		if err != nil {
			return err
		}
		plans = append(plans, plan)
	}

	ws, err := AcquireToolchain(paths, execCtx)
	if err != nil {
		return err
	}

	for _, plan := range plans {
		if err := runOne(plan, ws, paths, settings, execCtx); err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(plan.sourcePath), err)
		}
	}
	return nil
}

// runOne takes a single translated plan through emit, build, optional
// patch and install.
func runOne(plan *FontPlan, ws *Workspace, paths Paths, settings *Settings, execCtx *Executor) error {
	colArrow.Print("-> ")
	cPrintf(colSuccess, "Processing %s (plan %s)\n", filepath.Base(plan.sourcePath), plan.PlanID)

	if err := EmitPlanFile(plan, filepath.Join(ws.Dir, planFileName)); err != nil {
		return err
	}

	outDir, err := InvokeBuild(ws, plan.PlanID, execCtx)
	if err != nil {
		return err
	}

	if plan.WantsPatch() {
		if err := PatchFonts(plan, outDir, paths, settings, execCtx); err != nil {
			return err
		}
	} else {
		debugf("Plan %s does not request glyph patching\n", plan.PlanID)
	}

	return InstallFonts(outDir, paths.FontDir, execCtx)
}
