package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ironpeak/gym-class-booking/internal/model"
	"github.com/ironpeak/gym-class-booking/internal/repository"
)

// NewsletterHandler accepts newsletter signups.
type NewsletterHandler struct {
	subscribers *repository.NewsletterRepo
}

// NewNewsletterHandler constructs a NewsletterHandler.
func NewNewsletterHandler(subscribers *repository.NewsletterRepo) *NewsletterHandler {
	if subscribers == nil {
		panic("nil repository passed to NewNewsletterHandler")
	}
	return &NewsletterHandler{subscribers: subscribers}
}

// Subscribe handles POST /v1/newsletter.  Duplicate signups for the
// same email are rejected.
func (h *NewsletterHandler) Subscribe(c echo.Context) error {
	var req model.SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "a valid email address is required"})
	}

	sub := &model.NewsletterSubscriber{
		Email:        email,
		Name:         req.Name,
		Preferences:  req.Preferences,
		IPAddress:    clientIP(c),
		SubscribedAt: time.Now().UTC(),
	}
	if sub.Preferences == nil {
		sub.Preferences = []string{}
	}
	if err := h.subscribers.Subscribe(c.Request().Context(), sub); err != nil {
		if errors.Is(err, repository.ErrAlreadySubscribed) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Already subscribed",
				"message": "You are already subscribed to our newsletter.",
			})
		}
		c.Logger().Errorf("newsletter: subscribe failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to subscribe"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Subscribed successfully!",
		"data":    sub,
	})
}
