package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newHeaderCmd(a *app) *cobra.Command {
	var (
		module string
		crate  string
		cache  string
		write  bool
	)

	cmd := &cobra.Command{
		Use:   "header",
		Short: "Print the sanitized C header for a crate",
		Long: `Print the C header cffi should parse for a crate. A cached header file
is used as-is when it exists; otherwise cbindgen runs and its output is
stripped of preprocessor lines.

Generated build scripts call this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hc := a.headerCache()
			if cmd.Flags().Changed("write") {
				hc.WriteThrough = write
			}

			desc, err := hc.MakeFFI(cmd.Context(), module, crate, cache)
			if err != nil {
				return err
			}
			a.logger.Debug("header resolved", "module", desc.ModulePath, "source", desc.Source)

			_, err = fmt.Fprint(cmd.OutOrStdout(), desc.Header)
			return err
		},
	}

	cmd.Flags().StringVar(&module, "module", "", "ffi module the header is for")
	cmd.Flags().StringVar(&crate, "crate", "", "crate directory")
	cmd.Flags().StringVar(&cache, "cache", "", "cached header file (used when present)")
	cmd.Flags().BoolVar(&write, "write", false, "write an extracted header to the cache file")
	_ = cmd.MarkFlagRequired("module")
	_ = cmd.MarkFlagRequired("crate")

	return cmd
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
