package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/globaltrack/globaltrack/pkg/animator"
	"github.com/globaltrack/globaltrack/pkg/shipment"
)

type Options struct {
	Language  shipment.Language
	Speed     animator.Speed
	Animation animator.Config
}

// LoadShipment reads a shipment document as returned by the tracking API
func LoadShipment(path string) (*shipment.Shipment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var s shipment.Shipment
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode shipment %s: %w", path, err)
	}

	return &s, nil
}

// Replay animates the shipment route and blocks until the marker reaches the
// destination or ctx is cancelled.
func Replay(ctx context.Context, s *shipment.Shipment, options Options, sink animator.FrameSink) error {
	waypoints := shipment.BuildRoute(s, options.Language)

	speed := options.Speed
	if speed == 0 {
		speed = animator.SpeedNormal
	}

	player := animator.NewPlayer(animator.New(options.Animation))
	if err := player.Start(ctx, waypoints, float64(speed), sink); err != nil {
		return err
	}
	defer player.Stop()

	select {
	case <-player.Done():
	case <-ctx.Done():
	}

	return ctx.Err()
}
