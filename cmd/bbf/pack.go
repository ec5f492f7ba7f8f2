package main

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/TheBearodactyl/boundbook/codec"
	"github.com/TheBearodactyl/boundbook/internal/cbz"
	"github.com/TheBearodactyl/boundbook/writer"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func newPackCmd(log *zap.SugaredLogger) *cli.Command {
	return &cli.Command{
		Name:      "pack",
		Usage:     "pack a directory of page images or a CBZ archive into a .bbf file",
		ArgsUsage: "<dir-or-cbz> <out.bbf>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "alignment", Value: 12, Usage: "alignment exponent a (offsets are multiples of 2^a)"},
			&cli.IntFlag{Name: "ream-size", Value: 16, Usage: "nominal ream exponent r"},
			&cli.BoolFlag{Name: "variable-ream-size", Usage: "promote an asset's ream to fit when it exceeds 2^r"},
			&cli.StringSliceFlag{Name: "meta", Usage: "Key:Value[:Parent], repeatable"},
			&cli.StringSliceFlag{Name: "section", Usage: "Name:Target[:Parent], repeatable"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return cli.Exit("pack requires exactly two arguments: <dir-or-cbz> <out.bbf>", 1)
			}

			return runPack(c, log)
		},
	}
}

func runPack(c *cli.Context, log *zap.SugaredLogger) error {
	src := c.Args().Get(0)
	dst := c.Args().Get(1)

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %q: %w", dst, err)
	}
	defer out.Close()

	opts := []writer.Option{
		writer.WithAlignment(uint8(c.Int("alignment"))),
		writer.WithReamExponent(uint8(c.Int("ream-size"))),
		writer.WithVariableRream(c.Bool("variable-ream-size")),
		writer.WithTimestamp(time.Now()),
		writer.WithLogger(log),
	}

	w, err := writer.Open(codec.NewFileSink(out), opts...)
	if err != nil {
		return fmt.Errorf("opening writer: %w", err)
	}

	if err := addAssets(w, src); err != nil {
		return err
	}
	if err := applySections(w, c.StringSlice("section")); err != nil {
		return err
	}
	if err := applyMetadata(w, c.StringSlice("meta")); err != nil {
		return err
	}

	if err := w.Finalize(); err != nil {
		return fmt.Errorf("finalizing %q: %w", dst, err)
	}

	log.Infow("packed book", "source", src, "output", dst)

	return nil
}

func addAssets(w *writer.Writer, src string) error {
	if strings.EqualFold(filepath.Ext(src), ".cbz") {
		zr, err := zip.OpenReader(src)
		if err != nil {
			return fmt.Errorf("opening cbz %q: %w", src, err)
		}
		defer zr.Close()

		return cbz.Convert(w, &zr.Reader)
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading directory %q: %w", src, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(src, name))
		if err != nil {
			return fmt.Errorf("reading %q: %w", name, err)
		}

		assetIdx, err := w.AddAsset(cbz.ContentType(name), data)
		if err != nil {
			return fmt.Errorf("adding asset %q: %w", name, err)
		}
		if _, err := w.AddPage(assetIdx); err != nil {
			return fmt.Errorf("adding page for %q: %w", name, err)
		}
	}

	return nil
}

func applySections(w *writer.Writer, flags []string) error {
	for _, raw := range flags {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) < 2 {
			return fmt.Errorf("--section %q: expected Name:Target[:Parent]", raw)
		}

		target, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil {
			return fmt.Errorf("--section %q: invalid target page: %w", raw, err)
		}

		parent := ""
		if len(parts) == 3 {
			parent = parts[2]
		}

		if _, err := w.AddSection(parts[0], uint32(target), parent); err != nil {
			return fmt.Errorf("--section %q: %w", raw, err)
		}
	}

	return nil
}

func applyMetadata(w *writer.Writer, flags []string) error {
	for _, raw := range flags {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) < 2 {
			return fmt.Errorf("--meta %q: expected Key:Value[:Parent]", raw)
		}

		parent := ""
		if len(parts) == 3 {
			parent = parts[2]
		}

		if err := w.AddMetadata(parts[0], parts[1], parent); err != nil {
			return fmt.Errorf("--meta %q: %w", raw, err)
		}
	}

	return nil
}
