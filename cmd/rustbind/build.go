package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/contriboss/rustbind"
)

func newBuildCmd(a *app) *cobra.Command {
	var (
		buildLib   string
		inplace    bool
		target     string
		cleanFirst bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Compile every target and write its library and loader module",
		Long: `Compile every configured crate with Cargo and install the library and its
loader module.

By default this runs the build_py step: output goes to the package
directories under --build-lib. With --inplace it runs build_ext in place and
writes next to the package sources instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runBuild(cmd, buildOptions{
				buildLib:   buildLib,
				inplace:    inplace,
				target:     target,
				cleanFirst: cleanFirst,
				factory:    rustbind.NewBuilderFactory(),
			})
		},
	}

	cmd.Flags().StringVar(&buildLib, "build-lib", filepath.Join("build", "lib"), "build directory for the build_py step")
	cmd.Flags().BoolVar(&inplace, "inplace", false, "build into the source tree (build_ext --inplace)")
	cmd.Flags().StringVar(&target, "target", "", "Cargo target triple (default $CARGO_BUILD_TARGET)")
	cmd.Flags().BoolVar(&cleanFirst, "clean", false, "run cargo clean before building")

	return cmd
}

type buildOptions struct {
	buildLib   string
	inplace    bool
	target     string
	cleanFirst bool
	factory    *rustbind.BuilderFactory
}

func (a *app) runBuild(cmd *cobra.Command, opts buildOptions) error {
	factory := opts.factory
	if factory == nil {
		factory = rustbind.NewBuilderFactory()
	}

	base := a.buildConfig()
	base.Target = opts.target
	base.CleanFirst = opts.cleanFirst

	dist, defs, err := a.register(factory, base)
	if err != nil {
		return err
	}

	sc := rustbind.StepContext{Step: rustbind.StepBuildPy}
	if opts.inplace {
		sc = rustbind.StepContext{Step: rustbind.StepBuildExt, Inplace: true}
	} else {
		buildLib, err := filepath.Abs(opts.buildLib)
		if err != nil {
			return fmt.Errorf("resolve build directory: %w", err)
		}
		sc.BuildLib = buildLib
	}

	if err := dist.RunStep(cmd.Context(), sc); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, def := range defs {
		dir := def.PackageDir(sc.BuildLib)
		if opts.inplace {
			dir = dist.PackageDir(def.BasePath)
		}
		fmt.Fprintf(out, "%s %s -> %s\n",
			SuccessStyle.Render("✓"),
			PathStyle.Render(def.ModulePath),
			filepath.Join(dir, def.LibFilename))
	}
	return nil
}
