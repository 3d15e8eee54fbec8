package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

func newLayoutCommand(ctx *commandContext) *cobra.Command {
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "List the structural units of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHandle(args[0], func(h *audiotag.Handle) error {
				regions, err := h.Layout()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderLayout(regions, maxDepth))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&maxDepth, "depth", "d", -1, "Hide regions nested deeper than this (-1 shows all)")
	return cmd
}

func renderLayout(regions []audiotag.Region, maxDepth int) string {
	rows := make([][]string, 0, len(regions))
	for _, r := range regions {
		if maxDepth >= 0 && r.Depth > maxDepth {
			continue
		}
		rows = append(rows, []string{
			strings.Repeat("  ", r.Depth) + r.Name,
			strconv.FormatInt(r.Offset, 10),
			strconv.FormatInt(r.Length, 10),
			humanize.IBytes(uint64(r.Length)),
		})
	}
	return renderTable(
		[]string{"Region", "Offset", "Length", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	)
}
