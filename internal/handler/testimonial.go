package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ironpeak/gym-class-booking/internal/model"
	"github.com/ironpeak/gym-class-booking/internal/repository"
)

// TestimonialHandler serves approved testimonials and accepts new
// submissions, which start in pending state.
type TestimonialHandler struct {
	testimonials *repository.TestimonialRepo
}

// NewTestimonialHandler constructs a TestimonialHandler.
func NewTestimonialHandler(testimonials *repository.TestimonialRepo) *TestimonialHandler {
	if testimonials == nil {
		panic("nil repository passed to NewTestimonialHandler")
	}
	return &TestimonialHandler{testimonials: testimonials}
}

// List handles GET /v1/testimonials, returning approved entries only.
func (h *TestimonialHandler) List(c echo.Context) error {
	items, err := h.testimonials.ListApproved(c.Request().Context())
	if err != nil {
		c.Logger().Errorf("testimonials: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to fetch testimonials"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    items,
		"count":   len(items),
	})
}

// Create handles POST /v1/testimonials.
func (h *TestimonialHandler) Create(c echo.Context) error {
	var req model.TestimonialRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)

	switch {
	case req.Name == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "name is required"})
	case req.Title == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "title is required"})
	case req.Content == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "content is required"})
	case req.Rating < 1 || req.Rating > 5:
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "rating must be between 1 and 5"})
	}

	t := &model.Testimonial{
		Name:    req.Name,
		Role:    req.Role,
		Title:   req.Title,
		Content: req.Content,
		Rating:  req.Rating,
	}
	if err := h.testimonials.Create(c.Request().Context(), t); err != nil {
		c.Logger().Errorf("testimonials: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to submit testimonial"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Thank you! Your story will appear once approved.",
		"data":    t,
	})
}
