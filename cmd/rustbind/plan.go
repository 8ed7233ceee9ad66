package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/contriboss/rustbind"
)

type planTarget struct {
	Module      string `json:"module"`
	Crate       string `json:"crate"`
	FFIModule   string `json:"ffi_module"`
	FakeModule  string `json:"fake_module"`
	LibFilename string `json:"lib_filename"`
	HeaderCache string `json:"header_cache"`
	Cached      bool   `json:"cached"`
}

type plan struct {
	Targets        []planTarget         `json:"targets"`
	Extensions     []rustbind.Extension `json:"extensions"`
	BindingModules []string             `json:"binding_modules"`
	Universal      bool                 `json:"universal"`
}

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Register the configured targets and print what the host must build",
		Long: `Register every configured target and print, as JSON, the placeholder
extensions and binding-module references the Python host has to add to its
distribution. Build scripts are written to the configured script directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dist, defs, err := a.register(nil, a.buildConfig())
			if err != nil {
				return err
			}

			p := plan{
				Extensions:     dist.Extensions,
				BindingModules: dist.BindingModules,
				Universal:      a.cfg.Universal,
			}
			for _, def := range defs {
				p.Targets = append(p.Targets, planTarget{
					Module:      def.ModulePath,
					Crate:       def.CratePath,
					FFIModule:   def.FFIModulePath,
					FakeModule:  def.FakeModulePath,
					LibFilename: def.LibFilename,
					HeaderCache: def.CachedHeaderPath,
					Cached:      fileExists(def.CachedHeaderPath),
				})
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
}
