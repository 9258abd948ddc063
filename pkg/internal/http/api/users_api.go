package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lumichat/videobridge/pkg/internal/models"
)

func getUserinfo(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	return c.JSON(user)
}
