package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/globaltrack/globaltrack/pkg/animator"
	"github.com/globaltrack/globaltrack/pkg/api/routes"
)

type Dependencies struct {
	Lookup    routes.ShipmentLookup
	Animation animator.Config
}

func NewApp(deps Dependencies) *fiber.App {
	webApp := fiber.New(fiber.Config{
		AppName:               "globaltrack",
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	group := webApp.Group("/api")

	group.Get("version", routes.APIVersion)
	group.Get("speeds", routes.SpeedPresets)

	routes.TrackingRouter(group.Group("/tracking"), &routes.TrackingRoutes{
		Lookup:    deps.Lookup,
		Animation: deps.Animation,
	})

	return webApp
}

func SetupServer(listen string, deps Dependencies) error {
	return NewApp(deps).Listen(listen)
}
