package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/globaltrack/globaltrack/pkg/config"
	"github.com/globaltrack/globaltrack/pkg/redis_client"
	"github.com/globaltrack/globaltrack/pkg/trackingclient"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the tracking web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen target for the web server, overrides the config",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					if listen := c.String("listen"); listen != "" {
						cfg.Server.Listen = listen
					}

					client := NewTrackingClient(cfg)

					log.Info().
						Str("listen", cfg.Server.Listen).
						Str("tracking_api", cfg.TrackingAPI.BaseURL).
						Bool("cache", redis_client.IsConnected()).
						Msg("Starting web API")

					return SetupServer(cfg.Server.Listen, Dependencies{
						Lookup:    client,
						Animation: cfg.Animation.AnimatorConfig(),
					})
				},
			},
		},
	}
}

// NewTrackingClient connects Redis when configured and builds the upstream client on top of it
func NewTrackingClient(cfg *config.Config) *trackingclient.Client {
	options := []trackingclient.Option{
		trackingclient.WithMaxRetries(cfg.TrackingAPI.MaxRetries),
		trackingclient.WithHTTPClient(newHTTPClient(cfg.TrackingAPI.Timeout)),
	}

	if err := redis_client.Connect(cfg.Redis); err == nil {
		if cfg.TrackingAPI.CacheTTL > 0 {
			options = append(options, trackingclient.WithCache(
				trackingclient.NewShipmentCache(redis_client.Client, cfg.TrackingAPI.CacheTTL),
			))
		}
	} else if errors.Is(err, redis_client.ErrNotConfigured) {
		log.Info().Msg("Skipping Redis setup")
	} else {
		log.Error().Err(err).Msg("Failed to connect to Redis, running without cache and events")
	}

	return trackingclient.New(cfg.TrackingAPI.BaseURL, options...)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
