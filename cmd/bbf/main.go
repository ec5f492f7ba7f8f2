// Command bbf is the command-line front-end for the BBF container format:
// packing a directory or CBZ archive into a .bbf file, inspecting a
// file's structure, and verifying its integrity.
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	app := &cli.App{
		Name:        "bbf",
		Usage:       "pack, inspect, and verify Bound Book Format (BBF v3) files",
		Description: "A content-addressed, page-oriented binary container for page images, section markers, and metadata.",
		Commands: []*cli.Command{
			newPackCmd(logger.Sugar()),
			newInspectCmd(),
			newVerifyCmd(),
		},
	}

	sort.Sort(cli.CommandsByName(app.Commands))

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
