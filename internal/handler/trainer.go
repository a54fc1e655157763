package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ironpeak/gym-class-booking/internal/repository"
)

// TrainerHandler serves the public trainer roster.
type TrainerHandler struct {
	trainers *repository.TrainerRepo
}

// NewTrainerHandler constructs a TrainerHandler.
func NewTrainerHandler(trainers *repository.TrainerRepo) *TrainerHandler {
	if trainers == nil {
		panic("nil repository passed to NewTrainerHandler")
	}
	return &TrainerHandler{trainers: trainers}
}

// List handles GET /v1/trainers, returning active trainers only.
func (h *TrainerHandler) List(c echo.Context) error {
	trainers, err := h.trainers.ListActive(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("trainers: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to fetch trainers"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    trainers,
		"count":   len(trainers),
	})
}

// Get handles GET /v1/trainers/:id.
func (h *TrainerHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid trainer id"})
	}
	trainer, err := h.trainers.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrTrainerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Trainer not found"})
		}
		c.Logger().Errorf("trainers: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to fetch trainer"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": trainer})
}
