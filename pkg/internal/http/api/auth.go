package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lumichat/videobridge/pkg/internal/services"
	"github.com/spf13/viper"
)

func authMiddleware(c *fiber.Ctx) error {
	var token string
	if authorization := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(authorization, "Bearer ") {
		token = strings.TrimPrefix(authorization, "Bearer ")
	} else if cookie := c.Cookies("authorization"); len(cookie) > 0 {
		token = cookie
	} else {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid user")
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (any, error) {
		return []byte(viper.GetString("security.jwt_secret")), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid user")
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid user")
	}

	account, err := services.GetAccount(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid user")
	}

	c.Locals("user", account)
	return c.Next()
}
