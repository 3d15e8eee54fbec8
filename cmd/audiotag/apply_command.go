package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var assignments []string
	var numberTracks bool

	cmd := &cobra.Command{
		Use:   "apply <file>...",
		Short: "Apply the same edits to many files concurrently",
		Example: `  audiotag apply --set album="Kind of Blue" --set year=1959 --number-tracks *.flac`,
		Args: requireFiles,
		RunE: func(cmd *cobra.Command, paths []string) error {
			if len(assignments) == 0 && !numberTracks {
				return fmt.Errorf("nothing to change")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			bar := progressbar.NewOptions(len(paths),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionSetDescription("tagging"),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)

			jobs := make([]audiotag.Job, len(paths))
			for i, path := range paths {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
				jobs[i] = audiotag.Job{
					Data:    data,
					Options: cfg.OpenOptions(),
					Edit: func(h *audiotag.Handle) error {
						defer bar.Add(1) //nolint:errcheck // progress output only
						for _, a := range assignments {
							name, value, ok := strings.Cut(a, "=")
							if !ok {
								return fmt.Errorf("%q: expected field=value", a)
							}
							if err := applyField(h, name, value); err != nil {
								return err
							}
						}
						if numberTracks {
							if err := h.WriteNumber(audiotag.Track, i+1); err != nil {
								return err
							}
							return h.WriteNumber(audiotag.TrackTotal, len(paths))
						}
						return nil
					},
				}
			}

			outs, err := audiotag.SaveMany(context.Background(), jobs...)
			_ = bar.Finish()
			if err != nil {
				return err
			}
			for i, path := range paths {
				if err := audiotag.WriteFile(path, outs[i], cfg.SaveOptions()...); err != nil {
					return fmt.Errorf("save %s: %w", path, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d file(s)\n", len(paths))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&assignments, "set", nil, "field=value to set on every file (repeatable)")
	cmd.Flags().BoolVar(&numberTracks, "number-tracks", false, "Set track and trackTotal from argument order")
	return cmd
}
