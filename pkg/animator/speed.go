package animator

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

type Speed float64

const (
	SpeedHalf   Speed = 0.5
	SpeedNormal Speed = 1
	SpeedDouble Speed = 2
)

var SpeedPresets = []Speed{SpeedHalf, SpeedNormal, SpeedDouble}

// ParseSpeed accepts one of the presets, written as "0.5", "1x", "2X" etc.
func ParseSpeed(value string) (Speed, error) {
	trimmed := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(value)), "x")

	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid speed %q: %w", value, err)
	}

	speed := Speed(parsed)
	if !slices.Contains(SpeedPresets, speed) {
		return 0, fmt.Errorf("unsupported speed %q, expected one of 0.5x, 1x, 2x", value)
	}

	return speed, nil
}

func (s Speed) String() string {
	return strconv.FormatFloat(float64(s), 'f', -1, 64) + "x"
}
