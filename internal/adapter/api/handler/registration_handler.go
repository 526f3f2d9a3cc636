package handler

import (
	"github.com/labstack/echo/v4"

	"agrotrust/internal/adapter/api/middleware"
	"agrotrust/internal/domain/lifecycle"
	"agrotrust/internal/usecase"
	"agrotrust/pkg/response"
)

type RegistrationHandler struct {
	registrationUseCase *usecase.RegistrationUseCase
}

func NewRegistrationHandler(registrationUseCase *usecase.RegistrationUseCase) *RegistrationHandler {
	return &RegistrationHandler{
		registrationUseCase: registrationUseCase,
	}
}

type wizardResponse struct {
	lifecycle.Wizard
	StepNumber int `json:"step_number"`
	TotalSteps int `json:"total_steps"`
}

func toWizardResponse(w lifecycle.Wizard) wizardResponse {
	return wizardResponse{Wizard: w, StepNumber: w.Step.Number(), TotalSteps: 3}
}

func (h *RegistrationHandler) Start(c echo.Context) error {
	w := h.registrationUseCase.Start(c.Request().Context())
	return response.Created(c, toWizardResponse(w))
}

func (h *RegistrationHandler) Get(c echo.Context) error {
	w, err := h.registrationUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, toWizardResponse(w))
}

// Update saves form input without checking it. Checks run on Next and Submit.
func (h *RegistrationHandler) Update(c echo.Context) error {
	var patch lifecycle.FormPatch
	if err := c.Bind(&patch); err != nil {
		return response.Error(c, err)
	}

	w, err := h.registrationUseCase.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, toWizardResponse(w))
}

func (h *RegistrationHandler) Next(c echo.Context) error {
	w, err := h.registrationUseCase.Next(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, toWizardResponse(w))
}

func (h *RegistrationHandler) Back(c echo.Context) error {
	w, cancelled, err := h.registrationUseCase.Back(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	if cancelled {
		return response.Success(c, map[string]interface{}{"id": w.ID, "cancelled": true})
	}
	return response.Success(c, toWizardResponse(w))
}

func (h *RegistrationHandler) Submit(c echo.Context) error {
	profile, err := h.registrationUseCase.Submit(c.Request().Context(), c.Param("id"), middleware.ActorFrom(c).ID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, profile)
}

func (h *RegistrationHandler) Abandon(c echo.Context) error {
	if err := h.registrationUseCase.Abandon(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{"id": c.Param("id"), "cancelled": true})
}
