package api

import (
	"github.com/gofiber/fiber/v2"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		api.Get("/users/me", authMiddleware, getUserinfo)

		channels := api.Group("/channels").Name("Channels API")
		{
			channels.Get("/:channel", getChannel)

			channels.Get("/:channel/meetings", listMeeting)
			channels.Get("/:channel/meetings/ongoing", getOngoingMeeting)
			channels.Post("/:channel/meetings", authMiddleware, startMeeting)
			channels.Delete("/:channel/meetings/ongoing", authMiddleware, endMeeting)
		}

		// Pushed by the conferencing server; deliberately unauthenticated
		// and always answered with 200.
		api.Post("/webhooks/meeting/:meetingId", receiveMeetingEvent)
	}
}
