package shipment

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/globaltrack/globaltrack/pkg/animator"
	"github.com/globaltrack/globaltrack/pkg/util"
)

const (
	WaypointStateShipped     = "shipped"
	WaypointStateInTransit   = "in-transit"
	WaypointStateArrived     = "arrived"
	WaypointStateDestination = "destination"
	WaypointStateDelivered   = "delivered"
)

const notAvailable = "N/A"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// BuildRoute turns the shipment into the ordered list of points the marker travels:
// sender, every history entry that has coordinates, then the receiver.
func BuildRoute(s *Shipment, lang Language) []animator.Waypoint {
	if s == nil {
		return nil
	}

	var waypoints []animator.Waypoint

	if position, ok := coordinatePair(s.SenderCoordinates); ok {
		waypoints = append(waypoints, animator.Waypoint{
			Position:  position,
			Label:     joinLabel(s.SenderName, s.SenderAddress),
			State:     WaypointStateShipped,
			Timestamp: formatDate(s.CreatedAt, true, lang),
		})
	}

	for index, historyItem := range s.History {
		if historyItem == nil {
			continue
		}
		position, ok := coordinatePair(historyItem.Coordinates)
		if !ok {
			continue
		}

		label := historyItem.Location
		if label == "" {
			label = fmt.Sprintf("Point %d", index+1)
		}

		timestamp := formatDate(historyItem.Date, false, lang)
		if historyItem.Time != "" {
			timestamp = strings.TrimSpace(timestamp + " " + historyItem.Time)
		}

		waypoints = append(waypoints, animator.Waypoint{
			Position:  position,
			Label:     label,
			State:     historyState(historyItem.Status),
			Timestamp: timestamp,
		})
	}

	if position, ok := coordinatePair(s.ReceiverCoordinates); ok {
		state := WaypointStateDestination
		if s.IsDelivered() {
			state = WaypointStateDelivered
		}

		waypoints = append(waypoints, animator.Waypoint{
			Position:  position,
			Label:     joinLabel(s.ReceiverName, s.ReceiverAddress),
			State:     state,
			Timestamp: formatDate(s.ExpectedDeliveryDate, false, lang),
		})
	}

	util.InPlaceFilter(&waypoints, func(w animator.Waypoint) bool {
		return validCoordinate(w.Position.Lat) && validCoordinate(w.Position.Lng)
	})

	return waypoints
}

func coordinatePair(coordinates []float64) (animator.Position, bool) {
	if len(coordinates) != 2 {
		return animator.Position{}, false
	}

	return animator.Position{Lat: coordinates[0], Lng: coordinates[1]}, true
}

func validCoordinate(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

func joinLabel(name string, address string) string {
	switch {
	case name == "":
		return address
	case address == "":
		return name
	default:
		return fmt.Sprintf("%s - %s", name, address)
	}
}

// historyState maps the free text status of a history entry to a marker state
func historyState(status string) string {
	normalised := strings.ToLower(status)

	switch {
	case normalised == "":
		return WaypointStateInTransit
	case strings.Contains(normalised, "deliver") || strings.Contains(normalised, "livr"):
		return WaypointStateDelivered
	case strings.Contains(normalised, "arriv"):
		return WaypointStateArrived
	case strings.Contains(normalised, "ship") || strings.Contains(normalised, "expédi"):
		return WaypointStateShipped
	default:
		return WaypointStateInTransit
	}
}

func formatDate(value string, withTime bool, lang Language) string {
	if value == "" {
		return notAvailable
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err != nil {
			continue
		}

		format := lang.dateLayout()
		if withTime && layout != "2006-01-02" {
			format += " 15:04:05"
		}
		return parsed.Format(format)
	}

	return value
}

// MarkerColour is the fill used for a waypoint marker of the given state
func MarkerColour(state string) string {
	switch state {
	case WaypointStateShipped:
		return "#28a745"
	case WaypointStateArrived:
		return "#FF6B6B"
	case WaypointStateInTransit:
		return "#ffc107"
	case WaypointStateDestination, WaypointStateDelivered:
		return "#17a2b8"
	default:
		return "#5D5CDE"
	}
}
