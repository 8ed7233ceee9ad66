package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/contriboss/rustbind"
	"github.com/contriboss/rustbind/internal/config"
)

type initOptions struct {
	force  bool
	module string
	crate  string
}

func newInitCmd(a *app) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a rustbind.cue in the project directory",
		Long: `Create a rustbind.cue with the default settings.

Pass --module and --crate to declare the first target; otherwise the
targets list is left empty.`,
		Args: cobra.NoArgs,
		// init writes the config, so there is nothing to load yet.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInit(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "overwrite an existing rustbind.cue")
	cmd.Flags().StringVar(&opts.module, "module", "", "dotted module path of the first target")
	cmd.Flags().StringVar(&opts.crate, "crate", "", "crate directory of the first target")

	return cmd
}

func (a *app) runInit(cmd *cobra.Command, opts initOptions) error {
	if (opts.module == "") != (opts.crate == "") {
		return &rustbind.BuildError{
			Kind:    rustbind.KindConfiguration,
			Message: "--module and --crate must be given together",
		}
	}

	dir := a.projectDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	var targets []rustbind.Target
	if opts.module != "" {
		targets = append(targets, rustbind.Target{Module: opts.module, Crate: opts.crate})
	}

	path, err := config.CreateDefaultConfig(dir, targets, opts.force)
	if err != nil {
		return &rustbind.BuildError{Kind: rustbind.KindConfiguration, Message: err.Error(), Err: err}
	}

	absPath, _ := filepath.Abs(path)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintln(out, "  1. Declare your crates in the targets list")
	fmt.Fprintln(out, "  2. Run 'rustbind doctor' to check the toolchain")
	fmt.Fprintln(out, "  3. Run 'rustbind build --inplace' to build the modules")

	return nil
}
