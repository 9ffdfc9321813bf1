package helper

import "github.com/gofiber/fiber/v2"

// FiberErrorHandler is the app-wide fiber.Config.ErrorHandler: anything a handler
// or middleware returns unrendered goes through WriteError.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return JsonError(c, fe.Code, fe.Message)
	}
	return WriteError(c, err)
}
