package checkout

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/delivery/middleware"
	chkuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/checkout"
)

type Handler struct {
	uc *chkuc.Usecase
}

func New(uc *chkuc.Usecase) *Handler {
	return &Handler{uc: uc}
}

func (h *Handler) Complete(c *fiber.Ctx) error {
	var in chkuc.CompleteInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	in.OperatorID = middleware.OperatorID(c)

	out, err := h.uc.Complete(c.Context(), in)
	return writeOne(c, out, err, fiber.StatusCreated)
}

func (h *Handler) List(c *fiber.Ctx) error {
	in := chkuc.ListInput{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if from, err := parseTimeQuery(c.Query("from")); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid from")
	} else {
		in.From = from
	}
	if to, err := parseTimeQuery(c.Query("to")); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid to")
	} else {
		in.To = to
	}

	out, err := h.uc.List(c.Context(), in)
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(fiber.Map{"items": out})
}

func (h *Handler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), c.Params("id"))
	return writeOne(c, out, err, fiber.StatusOK)
}

func (h *Handler) Void(c *fiber.Ctx) error {
	// Voiding reverses a recorded sale; cashiers escalate to a supervisor.
	if middleware.OperatorRole(c) != "admin" {
		return fiber.NewError(fiber.StatusForbidden, "hanya admin yang dapat membatalkan transaksi")
	}

	var in chkuc.VoidInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	in.OperatorID = middleware.OperatorID(c)

	out, err := h.uc.Void(c.Context(), c.Params("id"), in)
	return writeOne(c, out, err, fiber.StatusOK)
}

func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeOne(c *fiber.Ctx, out *chkuc.Transaction, err error, okStatus int) error {
	if err != nil {
		return mapErr(err)
	}
	return c.Status(okStatus).JSON(out)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, chkuc.ErrInvalidInput),
		errors.Is(err, chkuc.ErrEmptyCart):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, chkuc.ErrOperatorMissing):
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, chkuc.ErrNotFound), errors.Is(err, chkuc.ErrDiscountMissing):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, chkuc.ErrInsufficientPayment),
		errors.Is(err, chkuc.ErrDiscountNotEligible):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, chkuc.ErrStockExhausted),
		errors.Is(err, chkuc.ErrNumberTaken),
		errors.Is(err, chkuc.ErrAlreadyVoided):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
