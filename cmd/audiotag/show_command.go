package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "show <file>...",
		Short: "Print tags and audio properties",
		Args:  requireFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for i, path := range args {
				if i > 0 {
					fmt.Fprintln(out)
				}
				err := ctx.withHandle(path, func(h *audiotag.Handle) error {
					fmt.Fprintf(out, "%s (%s)\n", path, h.Format())
					fmt.Fprintln(out, renderTags(h, all))
					return renderAudio(cmd, h)
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include fields the file does not carry")
	return cmd
}

func renderTags(h *audiotag.Handle, all bool) string {
	var rows [][]string
	for _, f := range audiotag.TextFields() {
		v, ok, _ := h.ReadText(f)
		if ok || all {
			rows = append(rows, []string{f.String(), v})
		}
	}
	for _, f := range audiotag.NumberFields() {
		v, ok, _ := h.ReadNumber(f)
		switch {
		case ok:
			rows = append(rows, []string{f.String(), strconv.Itoa(v)})
		case all:
			rows = append(rows, []string{f.String(), ""})
		}
	}
	if pics, _ := h.ReadPictures(); len(pics) > 0 || all {
		rows = append(rows, []string{"pictures", strconv.Itoa(len(pics))})
	}
	return renderTable([]string{"Field", "Value"}, rows, nil)
}

func renderAudio(cmd *cobra.Command, h *audiotag.Handle) error {
	out := cmd.OutOrStdout()
	props, err := h.Audio()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Audio:   %s\n", props)
	if payload, err := h.Payload(); err == nil {
		var n int64
		for _, s := range payload {
			n += s.Length
		}
		fmt.Fprintf(out, "Payload: %s in %d span(s)\n", humanize.IBytes(uint64(n)), len(payload))
	}
	warn := color.New(color.FgYellow)
	for _, w := range h.Warnings() {
		warn.Fprintf(out, "Warning: %s\n", w)
	}
	return nil
}
