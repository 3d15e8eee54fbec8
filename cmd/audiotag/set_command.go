package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

func newSetCommand(ctx *commandContext) *cobra.Command {
	var clearFields []string
	var output string

	cmd := &cobra.Command{
		Use:   "set <file> <field=value>...",
		Short: "Change text and number fields",
		Example: `  audiotag set song.flac title="Blue in Green" track=3 trackTotal=5
  audiotag set song.mp3 --clear comment --clear lyrics`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if len(args) == 1 && len(clearFields) == 0 {
				return fmt.Errorf("nothing to change")
			}
			target := path
			if output != "" {
				target = output
			}

			return ctx.withHandle(path, func(h *audiotag.Handle) error {
				for _, assignment := range args[1:] {
					name, value, ok := strings.Cut(assignment, "=")
					if !ok {
						return fmt.Errorf("%q: expected field=value", assignment)
					}
					if err := applyField(h, name, value); err != nil {
						return err
					}
				}
				for _, name := range clearFields {
					if err := clearField(h, name); err != nil {
						return err
					}
				}
				if err := ctx.save(h, target); err != nil {
					return err
				}
				dirty, _ := h.Dirty()
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %d field(s) in %s\n", len(dirty), target)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVar(&clearFields, "clear", nil, "Remove a field (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this path instead of replacing the file")
	return cmd
}

func lookupField(name string) (audiotag.Field, error) {
	f, ok := audiotag.ParseField(strings.TrimSpace(name))
	if !ok {
		return f, fmt.Errorf("unknown field %q", name)
	}
	if f == audiotag.FieldPictures {
		return f, fmt.Errorf("use the pictures command to change pictures")
	}
	return f, nil
}

func applyField(h *audiotag.Handle, name, value string) error {
	f, err := lookupField(name)
	if err != nil {
		return err
	}
	if f.IsText() {
		return h.WriteText(audiotag.TextField(f), value)
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%s: %q is not a number", f, value)
	}
	return h.WriteNumber(audiotag.NumberField(f), n)
}

func clearField(h *audiotag.Handle, name string) error {
	f, err := lookupField(name)
	if err != nil {
		return err
	}
	if f.IsText() {
		return h.ClearText(audiotag.TextField(f))
	}
	return h.ClearNumber(audiotag.NumberField(f))
}
