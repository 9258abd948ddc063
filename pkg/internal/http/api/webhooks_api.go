package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/lumichat/videobridge/pkg/internal/http/exts"
	"github.com/lumichat/videobridge/pkg/internal/services"
	"github.com/rs/zerolog/log"
)

// receiveMeetingEvent takes lifecycle notifications pushed by the
// conferencing server. The endpoint carries no authentication and no
// checksum verification (a known omission inherited from the original
// integration); failures are logged, never surfaced to the remote side.
func receiveMeetingEvent(c *fiber.Ctx) error {
	var data struct {
		Event string `json:"event" form:"event" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		log.Debug().Err(err).Msg("Received a malformed meeting lifecycle payload...")
		return c.SendStatus(fiber.StatusOK)
	}

	event, err := services.ParseLifecycleEvent(data.Event)
	if err != nil {
		log.Debug().Err(err).Msg("Received an undecodable meeting lifecycle event...")
		return c.SendStatus(fiber.StatusOK)
	}

	if err := services.HandleLifecycleEvent(services.GetMeetingConfig(), event); err != nil {
		log.Warn().Err(err).Str("meeting", c.Params("meetingId")).Msg("Unable to apply a meeting lifecycle event...")
	}
	return c.SendStatus(fiber.StatusOK)
}
