package routes

import "github.com/gofiber/fiber/v2"

var Version = "v0.1"

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": Version,
	})
}

// SpeedPresets lists the playback speeds the animation stream accepts
func SpeedPresets(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"speeds": []string{"0.5x", "1x", "2x"},
	})
}
