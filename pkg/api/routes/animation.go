package routes

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/globaltrack/globaltrack/pkg/animator"
	"github.com/globaltrack/globaltrack/pkg/events"
	"github.com/globaltrack/globaltrack/pkg/shipment"
	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
)

const (
	localsWaypoints = "waypoints"
	localsSpeed     = "speed"
	localsAnimation = "animation"
	localsCode      = "code"
)

type animationMessage struct {
	Type      string              `json:"type"`
	Code      string              `json:"code,omitempty"`
	Waypoints []animator.Waypoint `json:"waypoints,omitempty"`
	Frame     *animator.Frame     `json:"frame,omitempty"`
	Error     string              `json:"error,omitempty"`
}

type controlMessage struct {
	Action string `json:"action"`
	Speed  string `json:"speed"`
}

// prepareAnimation resolves the route before the upgrade so lookup failures are plain HTTP errors
func (t *TrackingRoutes) prepareAnimation(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	speed := animator.SpeedNormal
	if value := c.Query("speed"); value != "" {
		parsed, err := animator.ParseSpeed(value)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		speed = parsed
	}

	animation := t.Animation
	if value := c.Query("dwell"); value != "" {
		dwell, err := parseDwell(value)
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter dwell should be an ISO8601 duration",
			})
		}
		animation.Dwell = dwell
	}

	s, code, err := t.lookup(c)
	if err != nil {
		return lookupError(c, code, err)
	}

	waypoints := shipment.BuildRoute(s, shipment.ParseLanguage(c.Query("lang")))
	if len(waypoints) == 0 {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "No route data for this shipment",
		})
	}

	c.Locals(localsCode, code)
	c.Locals(localsWaypoints, waypoints)
	c.Locals(localsSpeed, speed)
	c.Locals(localsAnimation, animation)

	return c.Next()
}

func parseDwell(value string) (time.Duration, error) {
	parsed, err := iso8601.ParseISO8601(value)
	if err != nil {
		return 0, err
	}

	reference := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	return parsed.Shift(reference).Sub(reference), nil
}

func newAnimationHandler() fiber.Handler {
	return websocket.New(streamAnimation)
}

// streamAnimation owns one Player for the lifetime of the socket and tears it down on close
func streamAnimation(conn *websocket.Conn) {
	code, _ := conn.Locals(localsCode).(string)
	waypoints, _ := conn.Locals(localsWaypoints).([]animator.Waypoint)
	speed, _ := conn.Locals(localsSpeed).(animator.Speed)
	animation, _ := conn.Locals(localsAnimation).(animator.Config)

	var writeMutex sync.Mutex
	send := func(message animationMessage) error {
		writeMutex.Lock()
		defer writeMutex.Unlock()
		return conn.WriteJSON(message)
	}

	player := animator.NewPlayer(animator.New(animation))
	defer player.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := func(frame animator.Frame) {
		if err := send(animationMessage{Type: "frame", Frame: &frame}); err != nil {
			log.Debug().Err(err).Str("code", code).Msg("Dropping animation frame")
		}
	}

	start := func() error {
		player.Stop()
		if err := send(animationMessage{Type: "route", Code: code, Waypoints: waypoints}); err != nil {
			return err
		}
		return player.Start(ctx, waypoints, float64(speed), sink)
	}

	if err := start(); err != nil {
		send(animationMessage{Type: "error", Error: err.Error()})
		return
	}

	publishEvent(events.TrackingEvent{Type: events.EventTypeAnimation, Code: code, Waypoints: len(waypoints)})

	for {
		var control controlMessage
		if err := conn.ReadJSON(&control); err != nil {
			log.Debug().Err(err).Str("code", code).Msg("Animation socket closed")
			return
		}

		if control.Speed != "" {
			parsed, err := animator.ParseSpeed(control.Speed)
			if err != nil {
				send(animationMessage{Type: "error", Error: err.Error()})
				continue
			}
			speed = parsed
			if err := player.SetSpeed(float64(speed)); err != nil {
				send(animationMessage{Type: "error", Error: err.Error()})
			}
		}

		switch control.Action {
		case "":
		case "restart":
			if err := start(); err != nil {
				send(animationMessage{Type: "error", Error: err.Error()})
			}
		case "stop":
			player.Stop()
			send(animationMessage{Type: "stopped"})
		default:
			send(animationMessage{Type: "error", Error: "unknown action " + control.Action})
		}
	}
}
