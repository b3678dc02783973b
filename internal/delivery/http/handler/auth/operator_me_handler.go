package auth

import "github.com/gofiber/fiber/v2"

type OperatorMeHandler struct{}

func NewOperatorMeHandler() *OperatorMeHandler {
	return &OperatorMeHandler{}
}

func (h *OperatorMeHandler) Handle(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"id":   c.Locals("operator_id"),
		"name": c.Locals("operator_name"),
		"role": c.Locals("operator_role"),
	})
}
