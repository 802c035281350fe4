package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "railctl:", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "railctl",
		Usage: "Manage and query the rail schedule catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Usage:   "Env file with connection settings",
				Value:   ".env",
				EnvVars: []string{"RAIL_ENV_FILE"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override LOG_LEVEL",
			},
		},
		Commands: []*cli.Command{
			importCommand(),
			searchCommand(),
			connectionsCommand(),
		},
	}
}
