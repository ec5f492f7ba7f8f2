package main

import (
	"fmt"
	"os"

	"github.com/TheBearodactyl/boundbook/codec"
	"github.com/TheBearodactyl/boundbook/reader"
	"github.com/urfave/cli/v2"
)

func newInspectCmd() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "print a BBF file's header, asset and page counts, section list, and book-level metadata (individual asset records, the page sequence, and section-level metadata are not printed)",
		ArgsUsage: "<file.bbf>",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return cli.Exit("inspect requires exactly one argument: <file.bbf>", 1)
			}

			return runInspect(c.Args().Get(0))
		},
	}
}

func runInspect(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	r, err := reader.Open(codec.NewFileSource(f))
	if err != nil {
		return fmt.Errorf("opening reader: %w", err)
	}

	h, _ := r.Header()
	fmt.Printf("header:\n")
	fmt.Printf("  align_exp:      %d\n", h.AlignExp)
	fmt.Printf("  ream_exp:       %d\n", h.ReamExp)
	fmt.Printf("  variable_rream: %v\n", h.VariableRream)
	fmt.Printf("  timestamp:      %s\n", h.TimestampAsTime().Format("2006-01-02T15:04:05Z"))
	fmt.Printf("  index_offset:   %d\n", h.IndexOffset)
	fmt.Printf("  index_length:   %d\n", h.IndexLength)
	fmt.Printf("  index_hash:     %x\n", h.IndexHash)
	fmt.Printf("  file_hash:      %x\n", h.FileHash)

	assetCount, _ := r.AssetCount()
	pageCount, _ := r.PageCount()
	fmt.Printf("assets: %d\n", assetCount)
	fmt.Printf("pages:  %d\n", pageCount)

	sections, err := r.Sections()
	if err != nil {
		return err
	}
	fmt.Printf("sections:\n")
	for i, s := range sections {
		parent := "-"
		if s.HasParent {
			parent = fmt.Sprintf("%d", s.ParentIdx)
		}
		fmt.Printf("  [%d] %q -> page %d (parent %s)\n", i, s.Name, s.TargetPage, parent)
	}

	meta, err := r.Metadata(nil)
	if err != nil {
		return err
	}
	fmt.Printf("book metadata:\n")
	for _, m := range meta {
		fmt.Printf("  %s = %s\n", m.Key, m.Value)
	}

	return nil
}
