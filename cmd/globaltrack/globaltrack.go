package main

import (
	"os"
	"time"

	"github.com/globaltrack/globaltrack/pkg/api"
	"github.com/globaltrack/globaltrack/pkg/events"
	"github.com/globaltrack/globaltrack/pkg/replay"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("GLOBALTRACK_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("GLOBALTRACK_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "globaltrack",
		Description: "Shipment tracking API and route animation",

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a YAML config file",
				EnvVars: []string{"GLOBALTRACK_CONFIG"},
			},
		},

		Commands: []*cli.Command{
			api.RegisterCLI(),
			events.RegisterCLI(),
			replay.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
