package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ironpeak/gym-class-booking/internal/model"
	"github.com/ironpeak/gym-class-booking/internal/repository"
)

// ClassHandler serves the class catalog.  Reads are cached at the
// router; Create is intended for staff tooling.
type ClassHandler struct {
	classes  *repository.ClassRepo
	trainers *repository.TrainerRepo
}

// NewClassHandler constructs a ClassHandler.
func NewClassHandler(classes *repository.ClassRepo, trainers *repository.TrainerRepo) *ClassHandler {
	if classes == nil || trainers == nil {
		panic("nil repository passed to NewClassHandler")
	}
	return &ClassHandler{classes: classes, trainers: trainers}
}

// List handles GET /v1/classes with category/day/intensity/trainer
// filters.  isActive defaults to true; pass isActive=false to see
// retired classes.
func (h *ClassHandler) List(c echo.Context) error {
	filter := model.ClassFilter{
		Category:  c.QueryParam("category"),
		Day:       c.QueryParam("day"),
		Intensity: c.QueryParam("intensity"),
		IsActive:  c.QueryParam("isActive") != "false",
	}
	if raw := c.QueryParam("trainer"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid trainer id"})
		}
		filter.TrainerID = id
	}

	classes, err := h.classes.List(c.Request().Context(), filter)
	if err != nil {
		c.Logger().Errorf("classes: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to fetch classes"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    classes,
		"count":   len(classes),
	})
}

// Get handles GET /v1/classes/:id.
func (h *ClassHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid class id"})
	}
	cls, err := h.classes.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrClassNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Class not found"})
		}
		c.Logger().Errorf("classes: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to fetch class"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": cls})
}

// Create handles POST /v1/classes.  The trainer must exist; capacity is
// limited to 1..50 and the booked counter always starts at zero.
func (h *ClassHandler) Create(c echo.Context) error {
	var req model.CreateClassRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if msg := validateClassRequest(req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": msg})
	}

	ctx := c.Request().Context()
	if _, err := h.trainers.GetByID(ctx, req.TrainerID); err != nil {
		if errors.Is(err, repository.ErrTrainerNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Trainer not found"})
		}
		c.Logger().Errorf("classes: trainer lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to create class"})
	}

	cls, err := h.classes.Create(ctx, req)
	if err != nil {
		c.Logger().Errorf("classes: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to create class"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Class created successfully",
		"data":    cls,
	})
}

func validateClassRequest(req model.CreateClassRequest) string {
	switch {
	case req.Name == "":
		return "name is required"
	case req.Description == "":
		return "description is required"
	case !containsString(model.ClassCategories, req.Category):
		return "category must be one of strength, cardio, yoga, hiit, recovery, boxing"
	case req.TrainerID == 0:
		return "trainer_id is required"
	case !containsString(model.WeekDays, req.Schedule.Day):
		return "schedule day must be a weekday name"
	case req.Schedule.StartTime == "" || req.Schedule.EndTime == "":
		return "schedule start and end times are required"
	case req.Schedule.Duration < 15 || req.Schedule.Duration > 120:
		return "schedule duration must be between 15 and 120 minutes"
	case req.Capacity < 1 || req.Capacity > 50:
		return "capacity must be between 1 and 50"
	case !containsString(model.ClassIntensities, req.Intensity):
		return "intensity must be Beginner, Intermediate or Advanced"
	}
	return ""
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
