package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := audiotag.GetVersionInfo()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "audiotag %s\n", info.Version)
			fmt.Fprintf(out, "commit:  %s", info.GitCommit)
			if info.Modified {
				fmt.Fprint(out, " (modified)")
			}
			fmt.Fprintln(out)
			fmt.Fprintf(out, "built:   %s\n", info.BuildTime)
			fmt.Fprintf(out, "go:      %s\n", info.GoVersion)
			return nil
		},
	}
}
