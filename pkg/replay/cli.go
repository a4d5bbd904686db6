package replay

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/globaltrack/globaltrack/pkg/animator"
	"github.com/globaltrack/globaltrack/pkg/config"
	"github.com/globaltrack/globaltrack/pkg/shipment"
	"github.com/globaltrack/globaltrack/pkg/trackingclient"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:      "animate",
		Usage:     "Replay a shipment route in the terminal",
		ArgsUsage: "[tracking code]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "file",
				Usage: "read the shipment from a JSON file instead of the tracking API",
			},
			&cli.StringFlag{
				Name:  "speed",
				Usage: "playback speed, one of 0.5x, 1x, 2x",
				Value: "1x",
			},
			&cli.StringFlag{
				Name:  "lang",
				Usage: "language for labels and dates (fr, en)",
				Value: string(shipment.DefaultLanguage),
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "dump every frame",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}

			speed, err := animator.ParseSpeed(c.String("speed"))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := loadShipment(ctx, c, cfg)
			if err != nil {
				return err
			}

			verbose := c.Bool("verbose")
			sink := func(frame animator.Frame) {
				if verbose {
					pretty.Println(frame)
					return
				}

				log.Info().
					Int("segment", frame.SegmentIndex).
					Float64("lat", frame.Position.Lat).
					Float64("lng", frame.Position.Lng).
					Bool("dwelling", frame.Dwelling).
					Bool("terminal", frame.Terminal).
					Msg("Frame")
			}

			err = Replay(ctx, s, Options{
				Language:  shipment.ParseLanguage(c.String("lang")),
				Speed:     speed,
				Animation: cfg.Animation.AnimatorConfig(),
			}, sink)
			if errors.Is(err, context.Canceled) {
				log.Info().Msg("Animation interrupted")
				return nil
			}

			return err
		},
	}
}

func loadShipment(ctx context.Context, c *cli.Context, cfg *config.Config) (*shipment.Shipment, error) {
	if path := c.String("file"); path != "" {
		return LoadShipment(path)
	}

	code := c.Args().First()
	if code == "" {
		return nil, errors.New("a tracking code or --file is required")
	}

	client := trackingclient.New(cfg.TrackingAPI.BaseURL,
		trackingclient.WithMaxRetries(cfg.TrackingAPI.MaxRetries),
		trackingclient.WithHTTPClient(&http.Client{Timeout: cfg.TrackingAPI.Timeout}),
	)

	return client.Get(ctx, code)
}
