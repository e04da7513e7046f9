package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ocena",
		Usage: "grade park and recreation agency submissions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{"OCENA_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP service and web UI",
				Action: ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address, overrides server.addr"},
				},
			},
			{
				Name:      "grade",
				Usage:     "grade local files and print a summary",
				ArgsUsage: "FILE...",
				Action:    GradeAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print full results as JSON"},
					&cli.BoolFlag{Name: "save", Usage: "store results in the submissions database"},
				},
			},
			{
				Name:   "setup",
				Usage:  "create the uploads and database directories",
				Action: SetupAction,
			},
			{
				Name:   "history",
				Usage:  "list stored submissions, newest first",
				Action: HistoryAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "number of submissions to show"},
				},
			},
		},
	}
}
