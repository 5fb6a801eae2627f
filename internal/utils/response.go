package utils

import (
	"github.com/gofiber/fiber/v2"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends the generic error body. Callers pass a message safe
// to show externally; internal detail stays in the logs.
func ErrorResponse(c *fiber.Ctx, message string, status int) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// MessageResponse sends a simple {message} acknowledgment.
func MessageResponse(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": message,
	})
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Error string `json:"error"`
}

// MessageResponseStruct defines the schema for acknowledgment responses
type MessageResponseStruct struct {
	Message string `json:"message"`
}
