package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/simonhull/audiotag"
)

var pictureTypeNames = map[string]audiotag.PictureType{
	"other":  audiotag.PictureOther,
	"front":  audiotag.PictureFrontCover,
	"back":   audiotag.PictureBackCover,
	"media":  audiotag.PictureMedia,
	"artist": audiotag.PictureArtist,
}

func newPicturesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pictures",
		Short: "List, add, extract or remove embedded pictures",
	}

	cmd.AddCommand(newPicturesListCommand(ctx))
	cmd.AddCommand(newPicturesAddCommand(ctx))
	cmd.AddCommand(newPicturesExtractCommand(ctx))
	cmd.AddCommand(newPicturesClearCommand(ctx))
	return cmd
}

func newPicturesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <file>",
		Short: "List embedded pictures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHandle(args[0], func(h *audiotag.Handle) error {
				pics, err := h.ReadPictures()
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(pics))
				for i, p := range pics {
					dims := ""
					if w, ht := p.Dimensions(); w > 0 {
						dims = fmt.Sprintf("%dx%d", w, ht)
					}
					rows = append(rows, []string{
						strconv.Itoa(i), p.Type.String(), p.MIMEType, dims,
						humanize.IBytes(uint64(len(p.Data))), p.Description,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"#", "Type", "MIME", "Size", "Bytes", "Description"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newPicturesAddCommand(ctx *commandContext) *cobra.Command {
	var typeName, description string
	var replace bool

	cmd := &cobra.Command{
		Use:   "add <file> <image>",
		Short: "Embed an image file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			picType, ok := pictureTypeNames[strings.ToLower(typeName)]
			if !ok {
				return fmt.Errorf("unknown picture type %q", typeName)
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read image: %w", err)
			}
			pic := audiotag.Picture{
				MIMEType:    audiotag.DetectMIMEType(data),
				Type:        picType,
				Description: description,
				Data:        data,
			}

			return ctx.withHandle(args[0], func(h *audiotag.Handle) error {
				var pics []audiotag.Picture
				if !replace {
					if pics, err = h.ReadPictures(); err != nil {
						return err
					}
				}
				if err := h.WritePictures(append(pics, pic)); err != nil {
					return err
				}
				if err := ctx.save(h, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", pic, args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "front", "Picture type: front, back, media, artist or other")
	cmd.Flags().StringVar(&description, "description", "", "Picture description")
	cmd.Flags().BoolVar(&replace, "replace", false, "Remove existing pictures first")
	return cmd
}

func newPicturesExtractCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Write embedded pictures to image files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHandle(args[0], func(h *audiotag.Handle) error {
				pics, err := h.ReadPictures()
				if err != nil {
					return err
				}
				base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
				for i, p := range pics {
					name := filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, i, pictureExtension(p.MIMEType)))
					if err := os.WriteFile(name, p.Data, 0o644); err != nil {
						return fmt.Errorf("write picture: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", name)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Destination directory")
	return cmd
}

func newPicturesClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <file>",
		Short: "Remove every embedded picture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHandle(args[0], func(h *audiotag.Handle) error {
				if err := h.WritePictures(nil); err != nil {
					return err
				}
				return ctx.save(h, args[0])
			})
		},
	}
}

func pictureExtension(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/bmp":
		return ".bmp"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
