package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"technotes/framework/templgen"
)

func main() {
	var cfg templgen.Config

	cmd := &cobra.Command{
		Use:          "templgen",
		Short:        "Compile .templ sources into *_templ.go files",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result, err := templgen.Run(cfg)
			if err != nil {
				return err
			}
			for _, target := range result.Written {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "wrote", target)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&cfg.Files, "file", nil, "templ file to compile (repeatable)")
	cmd.Flags().StringArrayVar(&cfg.Paths, "path", nil, "directory to scan for .templ files (repeatable)")
	cmd.Flags().StringVar(&cfg.BasePath, "base", ".", "base path for file names embedded in generated output")
	cmd.Flags().BoolVar(&cfg.Check, "check", false, "fail when generated files are out of date instead of writing them")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
