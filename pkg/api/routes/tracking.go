package routes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/globaltrack/globaltrack/pkg/animator"
	"github.com/globaltrack/globaltrack/pkg/events"
	"github.com/globaltrack/globaltrack/pkg/shipment"
	"github.com/globaltrack/globaltrack/pkg/trackingclient"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
)

const maxCodesPerRequest = 20

type ShipmentLookup interface {
	Get(ctx context.Context, code string) (*shipment.Shipment, error)
	GetMany(ctx context.Context, codes []string) []trackingclient.LookupResult
}

type TrackingRoutes struct {
	Lookup    ShipmentLookup
	Animation animator.Config
	Now       func() time.Time
}

func TrackingRouter(router fiber.Router, t *TrackingRoutes) {
	if t.Now == nil {
		t.Now = time.Now
	}

	router.Get("/", t.listShipments)
	router.Get("/:code", t.getShipment)
	router.Get("/:code/route", t.getRoute)
	router.Get("/:code/ticket", t.getTicket)

	router.Use("/:code/animate", t.prepareAnimation)
	router.Get("/:code/animate", newAnimationHandler())
}

func viewGroups(c *fiber.Ctx) []string {
	if c.Query("view") == "basic" {
		return []string{"basic"}
	}
	return []string{"basic", "detailed"}
}

func lookupError(c *fiber.Ctx, code string, err error) error {
	switch {
	case errors.Is(err, trackingclient.ErrEmptyCode):
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Tracking code must not be empty",
		})
	case errors.Is(err, trackingclient.ErrTrackingNotFound):
		publishEvent(events.TrackingEvent{Type: events.EventTypeLookupNotFound, Code: code})

		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Shipment matching tracking code",
		})
	default:
		log.Error().Err(err).Str("code", code).Msg("Tracking lookup failed")

		c.SendStatus(fiber.StatusBadGateway)
		return c.JSON(fiber.Map{
			"error": "Tracking service unavailable",
		})
	}
}

func (t *TrackingRoutes) lookup(c *fiber.Ctx) (*shipment.Shipment, string, error) {
	code := trackingclient.NormaliseCode(c.Params("code"))
	s, err := t.Lookup.Get(c.UserContext(), code)

	return s, code, err
}

func (t *TrackingRoutes) getShipment(c *fiber.Ctx) error {
	s, code, err := t.lookup(c)
	if err != nil {
		return lookupError(c, code, err)
	}

	lang := shipment.ParseLanguage(c.Query("lang"))

	shipmentReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: viewGroups(c),
	}, s)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Shipment",
		})
	}

	publishEvent(events.TrackingEvent{Type: events.EventTypeLookup, Code: code, Status: s.Status})

	return c.JSON(fiber.Map{
		"shipment": shipmentReduced,
		"labels":   s.Labels(lang),
	})
}

func (t *TrackingRoutes) listShipments(c *fiber.Ctx) error {
	codes := strings.Split(c.Query("codes"), ",")
	codes = trimCodes(codes)

	if len(codes) == 0 {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "A codes filter must be applied to the request",
		})
	}
	if len(codes) > maxCodesPerRequest {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "Too many tracking codes in one request",
		})
	}

	lang := shipment.ParseLanguage(c.Query("lang"))
	groups := viewGroups(c)

	response := []fiber.Map{}
	for _, result := range t.Lookup.GetMany(c.UserContext(), codes) {
		item := fiber.Map{"code": result.Code}

		switch {
		case result.NotFound():
			item["error"] = "not found"
		case result.Err != nil:
			log.Error().Err(result.Err).Str("code", result.Code).Msg("Tracking lookup failed")
			item["error"] = "lookup failed"
		default:
			reduced, err := sheriff.Marshal(&sheriff.Options{Groups: groups}, result.Shipment)
			if err != nil {
				item["error"] = "could not reduce shipment"
				break
			}
			item["shipment"] = reduced
			item["labels"] = result.Shipment.Labels(lang)
		}

		response = append(response, item)
	}

	return c.JSON(response)
}

func trimCodes(codes []string) []string {
	trimmed := []string{}
	for _, code := range codes {
		if code = trackingclient.NormaliseCode(code); code != "" {
			trimmed = append(trimmed, code)
		}
	}
	return trimmed
}

type routeWaypoint struct {
	animator.Waypoint
	Colour string `json:"colour"`
}

func (t *TrackingRoutes) getRoute(c *fiber.Ctx) error {
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

	response := make([]routeWaypoint, len(waypoints))
	for i, waypoint := range waypoints {
		response[i] = routeWaypoint{Waypoint: waypoint, Colour: shipment.MarkerColour(waypoint.State)}
	}

	return c.JSON(fiber.Map{
		"code":      code,
		"waypoints": response,
	})
}

func (t *TrackingRoutes) getTicket(c *fiber.Ctx) error {
	s, code, err := t.lookup(c)
	if err != nil {
		return lookupError(c, code, err)
	}

	ticket, err := shipment.NewTicket(s, shipment.ParseLanguage(c.Query("lang")), t.Now())
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("Failed to build ticket")
		return fiber.ErrInternalServerError
	}
	if ticket.Shipment.TrackingNumber == "" {
		ticket.Shipment.TrackingNumber = code
	}

	body, err := ticket.JSON()
	if err != nil {
		return fiber.ErrInternalServerError
	}

	c.Attachment(ticket.Filename())
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

func publishEvent(event events.TrackingEvent) {
	if err := events.Publish(event); err != nil {
		log.Error().Err(err).Str("code", event.Code).Msg("Failed to publish tracking event")
	}
}
