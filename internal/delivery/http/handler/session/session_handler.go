package session

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rashiiddsr/kasir-cafe-backend/internal/delivery/middleware"
	sessuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/session"
)

type Handler struct {
	uc  *sessuc.Usecase
	loc *time.Location
}

func New(uc *sessuc.Usecase, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{uc: uc, loc: loc}
}

func (h *Handler) Open(c *fiber.Ctx) error {
	var in sessuc.OpenInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	in.OperatorID = middleware.OperatorID(c)

	out, err := h.uc.Open(c.Context(), in)
	if err != nil {
		return mapErr(err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *Handler) Status(c *fiber.Ctx) error {
	var on time.Time
	if d := c.Query("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, h.loc)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
		on = parsed
	}

	out, err := h.uc.Status(c.Context(), middleware.OperatorID(c), on)
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(out)
}

func (h *Handler) Close(c *fiber.Ctx) error {
	var in sessuc.CloseInput
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	in.OperatorID = middleware.OperatorID(c)

	out, err := h.uc.Close(c.Context(), c.Params("id"), in)
	if err != nil {
		return mapErr(err)
	}
	return c.JSON(out)
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, sessuc.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, sessuc.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, sessuc.ErrNotOwner):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, sessuc.ErrAlreadyOpen),
		errors.Is(err, sessuc.ErrOpenedToday),
		errors.Is(err, sessuc.ErrAlreadyClosed),
		errors.Is(err, sessuc.ErrPendingCarts):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
