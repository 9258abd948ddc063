package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lumichat/videobridge/pkg/internal/services"
)

func getChannel(c *fiber.Ctx) error {
	alias := c.Params("channel")

	if channel, err := services.GetChannelWithAlias(alias); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	} else {
		return c.JSON(channel)
	}
}
