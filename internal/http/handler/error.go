package handler

import "github.com/gofiber/fiber/v2"

// errorResponse is the standardized error body. Clients rely on the exact
// shape, so there is no envelope beyond the single message field.
type errorResponse struct {
	Error string `json:"error"`
}

// writeError writes a plain JSON error response without leaking internal details.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorResponse{Error: message})
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses for errors escaping the route handlers.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "file exceeds the maximum allowed size")
		default:
			return writeError(c, status, "internal server error")
		}
	}
}
