package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ironpeak/gym-class-booking/internal/model"
	"github.com/ironpeak/gym-class-booking/internal/repository"
)

// ContactHandler accepts contact form submissions.
type ContactHandler struct {
	messages *repository.ContactRepo
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(messages *repository.ContactRepo) *ContactHandler {
	if messages == nil {
		panic("nil repository passed to NewContactHandler")
	}
	return &ContactHandler{messages: messages}
}

// Create handles POST /v1/contact.
func (h *ContactHandler) Create(c echo.Context) error {
	var req model.ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if msg := validateContact(req); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": msg})
	}

	record := &model.ContactMessage{
		Name:      req.Name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		IPAddress: clientIP(c),
		UserAgent: c.Request().UserAgent(),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.messages.Create(c.Request().Context(), record); err != nil {
		c.Logger().Errorf("contact: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to send message"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Message sent successfully!",
		"data":    record,
	})
}

func validateContact(req model.ContactRequest) string {
	switch {
	case len(req.Name) < 2 || len(req.Name) > 100:
		return "name must be 2 to 100 characters"
	case !strings.Contains(req.Email, "@"):
		return "a valid email address is required"
	case req.Subject == "" || len(req.Subject) > 100:
		return "subject must be 1 to 100 characters"
	case len(req.Message) < 10 || len(req.Message) > 1000:
		return "message must be 10 to 1000 characters"
	}
	return ""
}
