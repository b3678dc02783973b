package product

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	produc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/product"
)

type Handler struct {
	uc *produc.Usecase
}

func New(uc *produc.Usecase) *Handler {
	return &Handler{uc: uc}
}

func (h *Handler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)

	out, err := h.uc.List(c.Context(), limit, offset)
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(fiber.Map{"items": out})
}

func (h *Handler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(out)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, produc.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, produc.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
