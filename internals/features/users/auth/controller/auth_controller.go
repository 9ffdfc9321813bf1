package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"volunteerhub_backend/internals/features/users/auth/service"
	helper "volunteerhub_backend/internals/helpers"
)

type AuthController struct {
	Svc       *service.AuthService
	Validator *validator.Validate
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Svc: svc, Validator: helper.NewValidator()}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/login
func (ctl *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.WriteError(c, err)
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.WriteError(c, err)
	}

	res, err := ctl.Svc.Login(c.UserContext(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	if err != nil {
		return helper.WriteError(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return helper.JsonOK(c, "login successful", res)
}
