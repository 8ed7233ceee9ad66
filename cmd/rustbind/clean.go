package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contriboss/rustbind"
)

func newCleanCmd(a *app) *cobra.Command {
	var (
		header bool
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove build artifacts or cached headers",
		Long: `Run cargo clean in every configured crate.

With --header the cached header.h files are deleted instead, forcing the next
build to run cbindgen again. --all does both.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runClean(cmd, rustbind.NewBuilderFactory(), header || all, !header || all)
		},
	}

	cmd.Flags().BoolVar(&header, "header", false, "delete cached headers instead of build artifacts")
	cmd.Flags().BoolVar(&all, "all", false, "delete cached headers and build artifacts")

	return cmd
}

func (a *app) runClean(cmd *cobra.Command, factory *rustbind.BuilderFactory, headers, artifacts bool) error {
	config := a.buildConfig()
	out := cmd.OutOrStdout()

	for _, target := range a.cfg.Targets {
		def, err := rustbind.MakeModuleDef(target.Module, target.Crate,
			rustbind.WithExtensionSuffix(a.cfg.ExtensionSuffix))
		if err != nil {
			return err
		}

		if headers {
			if err := rustbind.RemoveHeaderCache(def); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s removed %s\n", SuccessStyle.Render("✓"), PathStyle.Render(def.CachedHeaderPath))
		}

		if artifacts {
			builder, err := factory.BuilderFor(def.ManifestPath)
			if err != nil {
				return err
			}
			a.logger.Info("cleaning", "module", def.ModulePath, "builder", builder.Name())
			if err := builder.Clean(cmd.Context(), &config, def); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s cleaned %s\n", SuccessStyle.Render("✓"), PathStyle.Render(def.CratePath))
		}
	}
	return nil
}
