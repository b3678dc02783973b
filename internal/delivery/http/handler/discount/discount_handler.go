package discount

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/cart"
	discuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/discount"
)

type Handler struct {
	uc *discuc.Usecase
}

func New(uc *discuc.Usecase) *Handler {
	return &Handler{uc: uc}
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var in discuc.Discount
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.uc.Create(c.Context(), &in)
	return writeOne(c, out, err, fiber.StatusCreated)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	var in discuc.Discount
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	in.ID = c.Params("id")

	out, err := h.uc.Update(c.Context(), &in)
	return writeOne(c, out, err, fiber.StatusOK)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return mapErr(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	return writeOne(c, out, err, fiber.StatusOK)
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

type evaluateRequest struct {
	DiscountID string      `json:"discountId"`
	Lines      []cart.Line `json:"lines"`
}

// Evaluate prices one candidate discount against the current cart. An
// ineligible discount is a normal 200 response with isEligible=false and
// the reason in message; only malformed input is an error.
func (h *Handler) Evaluate(c *fiber.Ctx) error {
	var req evaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	if req.DiscountID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "discountId is required")
	}

	crt, err := cart.FromLines(req.Lines)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	d, err := h.uc.GetByID(c.Context(), req.DiscountID)
	if err != nil {
		return mapErr(err)
	}

	return c.JSON(discuc.Evaluate(d, crt, time.Now()))
}

func writeOne(c *fiber.Ctx, out *discuc.Discount, err error, okStatus int) error {
	if err != nil {
		return mapErr(err)
	}
	return c.Status(okStatus).JSON(out)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, discuc.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, discuc.ErrProductMissing):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, discuc.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, discuc.ErrCodeTaken):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
