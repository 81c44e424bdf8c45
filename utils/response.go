package utils

import "github.com/gofiber/fiber/v2"

// Success writes the standard success envelope.
func Success(c *fiber.Ctx, status int, message string, data interface{}) error {
	body := fiber.Map{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// SuccessList is Success plus the count field list endpoints carry.
func SuccessList(c *fiber.Ctx, message string, count int, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"count":   count,
		"data":    data,
	})
}
