package api

import (
	"errors"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/lumichat/videobridge/pkg/internal/models"
	"github.com/lumichat/videobridge/pkg/internal/services"
)

var meetingLocks sync.Map

func listMeeting(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)
	alias := c.Params("channel")

	channel, err := services.GetChannelWithAlias(alias)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if meetings, err := services.ListMeeting(channel, take, offset); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	} else {
		return c.JSON(meetings)
	}
}

func getOngoingMeeting(c *fiber.Ctx) error {
	alias := c.Params("channel")

	channel, err := services.GetChannelWithAlias(alias)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if meeting, err := services.GetOngoingMeeting(channel); err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	} else {
		return c.JSON(meeting)
	}
}

func startMeeting(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	alias := c.Params("channel")
	cfg := services.GetMeetingConfig()

	channel, _, err := services.GetChannelIdentity(alias, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, services.ErrInvalidUser.Error())
	}
	if !cfg.Enabled {
		return fiber.NewError(fiber.StatusForbidden, services.ErrNotAllowed.Error())
	}

	if _, ok := meetingLocks.Load(channel.ID); ok {
		return fiber.NewError(fiber.StatusLocked, "there is already a meeting in creation progress for this channel")
	} else {
		meetingLocks.Store(channel.ID, true)
	}
	defer meetingLocks.Delete(channel.ID)

	ticket, err := services.JoinMeeting(cfg, channel, user)
	if err != nil {
		return fiber.NewError(statusForMeetingError(err), err.Error())
	}
	return c.JSON(ticket)
}

func endMeeting(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	alias := c.Params("channel")
	cfg := services.GetMeetingConfig()

	channel, _, err := services.GetChannelIdentity(alias, user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, services.ErrInvalidUser.Error())
	}
	if !cfg.Enabled {
		return fiber.NewError(fiber.StatusForbidden, services.ErrNotAllowed.Error())
	}

	if err := services.EndMeeting(cfg, channel); err != nil {
		return fiber.NewError(statusForMeetingError(err), err.Error())
	}
	return c.SendStatus(fiber.StatusOK)
}

func statusForMeetingError(err error) int {
	var remote *services.RemoteError
	switch {
	case errors.As(err, &remote),
		errors.Is(err, services.ErrRemoteRefused),
		errors.Is(err, services.ErrCallbackFailed),
		errors.Is(err, services.ErrResponseMalformed):
		return fiber.StatusBadGateway
	case errors.Is(err, services.ErrNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrInvalidUser):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}
