// Command ataf creates and extracts ataf archives.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "ataf",
		Usage: "create and extract ataf archives",
		Commands: []*cli.Command{
			createCommand(),
			extractCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR", err)
		os.Exit(1)
	}
}
