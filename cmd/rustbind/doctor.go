package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/contriboss/rustbind"
)

func newDoctorCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that the external build tools are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDoctor(cmd.OutOrStdout())
		},
	}
}

// checkers returns the tool checkers the configured targets need. cbindgen is
// only required when some target has no cached header.
func (a *app) checkers() []rustbind.ToolChecker {
	checkers := []rustbind.ToolChecker{&rustbind.CargoBuilder{Path: a.cfg.Cargo}}

	needHeader := len(a.cfg.Targets) == 0
	for _, target := range a.cfg.Targets {
		def, err := rustbind.MakeModuleDef(target.Module, target.Crate)
		if err != nil || !fileExists(def.CachedHeaderPath) {
			needHeader = true
			break
		}
	}
	if needHeader {
		checkers = append(checkers, &rustbind.CbindgenExtractor{Path: a.cfg.Cbindgen})
	}
	return checkers
}

func (a *app) runDoctor(out io.Writer) error {
	var missing int
	for _, checker := range a.checkers() {
		for _, req := range checker.RequiredTools() {
			err := rustbind.CheckRequiredTools([]rustbind.ToolRequirement{req})
			switch {
			case err == nil:
				fmt.Fprintf(out, "%s %s %s\n", SuccessStyle.Render("✓"), req.Name, SubtitleStyle.Render(req.Purpose))
			case req.Optional:
				fmt.Fprintf(out, "%s %s %s\n", WarningStyle.Render("!"), req.Name, SubtitleStyle.Render("(optional) "+req.Purpose))
			default:
				missing++
				fmt.Fprintf(out, "%s %s\n", ErrorStyle.Render("✗"), err)
			}
		}
	}

	if missing > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d required tool(s) missing", missing)}
	}
	return nil
}
