package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contriboss/rustbind"
)

func newWheelTagCmd(a *app) *cobra.Command {
	var (
		base      rustbind.WheelTag
		universal bool
	)

	cmd := &cobra.Command{
		Use:   "wheel-tag",
		Short: "Print the wheel tag for the given interpreter and platform",
		Long: `Print the compatibility tag a wheel should carry. The native library is
loaded through a C ABI, so in universal mode (the default) the python and
abi parts become py2.py3 and none while the platform is kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("universal") {
				universal = a.cfg.Universal
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), rustbind.UniversalTag(base, universal))
			return err
		},
	}

	cmd.Flags().StringVar(&base.Python, "python", "py3", "interpreter tag")
	cmd.Flags().StringVar(&base.ABI, "abi", "none", "ABI tag")
	cmd.Flags().StringVar(&base.Platform, "platform", "any", "platform tag")
	cmd.Flags().BoolVar(&universal, "universal", true, "rewrite the tag for any Python (default from config)")

	return cmd
}
