package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/youruser/vcardapp/internal/card"
	imagepkg "github.com/youruser/vcardapp/internal/image"
	"github.com/youruser/vcardapp/internal/render"
	"github.com/youruser/vcardapp/internal/util"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cardrender",
		Short:         "Render business cards and styled QR codes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "log degraded render passes")
	root.AddCommand(newRenderCmd(), newQRCmd(), newDefaultCmd())
	return root
}

type renderOptions struct {
	in        string
	out       string
	fontsDir  string
	maxBytes  int64
	maxPixels int64
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a card document (JSON) to PNG",
		RunE: func(cmd *cobra.Command, _ []string) error {
			verbose, _ := cmd.Flags().GetBool("verbose")
			return runRender(cmd, opts, verbose)
		},
	}
	cmd.Flags().StringVar(&opts.in, "in", "", "card document JSON (- for stdin)")
	cmd.Flags().StringVar(&opts.out, "out", "card.png", "output PNG (- for stdout)")
	cmd.Flags().StringVar(&opts.fontsDir, "fonts", "", "directory of <Family>-<Variant>.ttf files")
	cmd.Flags().Int64Var(&opts.maxBytes, "max-image-bytes", 10<<20, "size cap for each image asset")
	cmd.Flags().Int64Var(&opts.maxPixels, "max-image-pixels", 25_000_000, "width*height cap for each image asset")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runRender(cmd *cobra.Command, opts renderOptions, verbose bool) error {
	log := newLogger(verbose)

	var (
		doc     card.Document
		err     error
		baseDir = "."
	)
	if opts.in == "-" {
		doc, err = card.DecodeDocument(cmd.InOrStdin())
	} else {
		doc, err = card.LoadDocumentFile(opts.in)
		baseDir = filepath.Dir(opts.in)
	}
	if err != nil {
		return err
	}

	fonts := render.NewFontBook()
	if opts.fontsDir != "" {
		var skipped map[string]error
		fonts, skipped, err = render.LoadFonts(opts.fontsDir)
		if err != nil {
			return err
		}
		for name, ferr := range skipped {
			log.Warn("skipped font file", "file", name, "error", ferr)
		}
	}

	resolver := imagepkg.NewResolver(imagepkg.ResolverOptions{
		MaxBytes:   opts.maxBytes,
		MaxPixels:  opts.maxPixels,
		AllowFiles: true,
		BaseDir:    baseDir,
	})
	r := render.New(resolver, fonts, render.WithLogger(log))

	var buf bytes.Buffer
	if err := r.RenderPNG(cmd.Context(), doc, &buf); err != nil {
		return err
	}
	return writeOutput(cmd, opts.out, buf.Bytes())
}

func newQRCmd() *cobra.Command {
	var (
		style  string
		asPNG  bool
		size   int
		output string
	)
	cmd := &cobra.Command{
		Use:   "qr TEXT",
		Short: "Encode TEXT as a styled SVG (or plain PNG) QR code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asPNG {
				b, err := imagepkg.GenerateQRPNG(args[0], size)
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, b)
			}
			st, err := imagepkg.ParseQRStyle(style)
			if err != nil {
				return err
			}
			svg, err := imagepkg.GenerateQRSVG(args[0], st)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, []byte(svg))
		},
	}
	cmd.Flags().StringVar(&style, "style", string(imagepkg.QRDefault), "default, modern1, modern2 or modern3")
	cmd.Flags().BoolVar(&asPNG, "png", false, "write a PNG instead of SVG")
	cmd.Flags().IntVar(&size, "size", 256, "PNG edge length in pixels")
	cmd.Flags().StringVarP(&output, "out", "o", "-", "output file (- for stdout)")
	return cmd
}

func newDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default",
		Short: "Print the default card document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(card.Default())
		},
	}
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := util.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", path, len(data))
	return nil
}
