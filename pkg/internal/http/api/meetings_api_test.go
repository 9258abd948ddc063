package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lumichat/videobridge/pkg/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestStatusForMeetingError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{&services.RemoteError{Status: 500}, fiber.StatusBadGateway},
		{services.ErrRemoteRefused, fiber.StatusBadGateway},
		{fmt.Errorf("%w: checksumError", services.ErrRemoteRefused), fiber.StatusBadGateway},
		{services.ErrCallbackFailed, fiber.StatusBadGateway},
		{fmt.Errorf("%w: unexpected end of document", services.ErrResponseMalformed), fiber.StatusBadGateway},
		{services.ErrNotAllowed, fiber.StatusForbidden},
		{services.ErrInvalidUser, fiber.StatusUnauthorized},
		{services.ErrUserdataInvalid, fiber.StatusInternalServerError},
		{errors.New("anything else"), fiber.StatusInternalServerError},
	}

	for _, tt := range cases {
		assert.Equal(t, tt.status, statusForMeetingError(tt.err), "error %v", tt.err)
	}
}
