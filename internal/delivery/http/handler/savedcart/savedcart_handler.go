package savedcart

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/delivery/middleware"
	scuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/savedcart"
)

type Handler struct {
	uc *scuc.Usecase
}

func New(uc *scuc.Usecase) *Handler {
	return &Handler{uc: uc}
}

func (h *Handler) Save(c *fiber.Ctx) error {
	var in scuc.SaveInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	in.OperatorID = middleware.OperatorID(c)

	out, err := h.uc.Save(c.Context(), in)
	if err != nil {
		return mapErr(err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *Handler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListByOperator(c.Context(), middleware.OperatorID(c))
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(fiber.Map{"items": out})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id"), middleware.OperatorID(c)); err != nil {
		return mapErr(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, scuc.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, scuc.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, scuc.ErrNotOwner):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
