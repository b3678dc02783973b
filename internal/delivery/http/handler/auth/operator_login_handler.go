package auth

import (
	"github.com/gofiber/fiber/v2"

	authuc "github.com/rashiiddsr/kasir-cafe-backend/internal/usecase/auth"
)

type OperatorLoginHandler struct {
	uc *authuc.OperatorLoginUsecase
}

func NewOperatorLoginHandler(uc *authuc.OperatorLoginUsecase) *OperatorLoginHandler {
	return &OperatorLoginHandler{uc: uc}
}

type operatorLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *OperatorLoginHandler) Handle(c *fiber.Ctx) error {
	var req operatorLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json body")
	}
	if req.Username == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "username and password are required")
	}

	res, err := h.uc.Execute(c.Context(), req.Username, req.Password)
	if err == authuc.ErrInvalidCredentials {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if err == authuc.ErrInactiveOperator {
		return fiber.NewError(fiber.StatusForbidden, "operator inactive")
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	return c.JSON(res)
}
