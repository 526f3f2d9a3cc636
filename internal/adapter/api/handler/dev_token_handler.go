package handler

import (
	"github.com/labstack/echo/v4"

	"agrotrust/internal/domain/entity"
	"agrotrust/internal/infrastructure/firebase"
	"agrotrust/pkg/errors"
	"agrotrust/pkg/response"
)

type DevTokenHandler struct {
	firebaseAuth *firebase.FirebaseAuthClient
}

func NewDevTokenHandler(firebaseAuth *firebase.FirebaseAuthClient) *DevTokenHandler {
	return &DevTokenHandler{
		firebaseAuth: firebaseAuth,
	}
}

type devTokenRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=consumer farmer admin"`
}

// GenerateToken mints a custom token carrying the role claim, for use
// against a Firebase project during development.
func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	var req devTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	token, err := h.firebaseAuth.GenerateDevToken(c.Request().Context(), req.UserID, entity.Role(req.Role))
	if err != nil {
		return response.Error(c, errors.Internal("Failed to generate token", err))
	}

	return response.Success(c, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":   req.UserID,
			"role": req.Role,
		},
	})
}
