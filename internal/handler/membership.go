package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ironpeak/gym-class-booking/internal/model"
	"github.com/ironpeak/gym-class-booking/internal/repository"
	"github.com/ironpeak/gym-class-booking/internal/service"
)

// MembershipHandler exposes the plans catalog, the public join flow and
// the admin review endpoints for membership applications.
type MembershipHandler struct {
	svc   *service.MembershipService
	plans *repository.PlanRepo
}

// NewMembershipHandler constructs a MembershipHandler.
func NewMembershipHandler(svc *service.MembershipService, plans *repository.PlanRepo) *MembershipHandler {
	if svc == nil || plans == nil {
		panic("nil dependency passed to NewMembershipHandler")
	}
	return &MembershipHandler{svc: svc, plans: plans}
}

// Plans handles GET /v1/membership/plans.  Plans are quoted for the
// requested billing period; yearly quotes apply each plan's discount.
func (h *MembershipHandler) Plans(c echo.Context) error {
	period := c.QueryParam("billingPeriod")
	if period == "" {
		period = model.BillingMonthly
	}
	if period != model.BillingMonthly && period != model.BillingYearly {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "billingPeriod must be monthly or yearly"})
	}

	plans, err := h.plans.List(c.Request().Context(), c.QueryParam("isActive") != "false")
	if err != nil {
		c.Logger().Errorf("membership: list plans failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to fetch memberships"})
	}

	quoted := make([]model.PricedPlan, 0, len(plans))
	for _, p := range plans {
		quoted = append(quoted, p.PricedFor(period))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"data":          quoted,
		"billingPeriod": period,
	})
}

// Join handles POST /v1/membership/join.  The welcome email is queued
// asynchronously; its failure never affects the response.
func (h *MembershipHandler) Join(c echo.Context) error {
	var req model.JoinRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}

	app, err := h.svc.Join(c.Request().Context(), req, clientIP(c), c.Request().UserAgent())
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Validation failed",
				"details": vErr.Fields,
			})
		}
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "You already have an active application. Our team will contact you soon.",
			})
		}
		c.Logger().Errorf("membership: join failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to submit application"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success":       true,
		"message":       "Application submitted successfully!",
		"reference":     app.ReferenceNumber,
		"applicationId": app.ID,
		"nextSteps":     service.NextSteps,
	})
}

// ListApplications handles GET /v1/membership/applications for admins,
// with status/page/limit query parameters and a pagination envelope.
func (h *MembershipHandler) ListApplications(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	apps, total, err := h.svc.ListApplications(c.Request().Context(), c.QueryParam("status"), page, limit)
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Validation failed",
				"details": vErr.Fields,
			})
		}
		c.Logger().Errorf("membership: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to fetch applications"})
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    apps,
		"pagination": echo.Map{
			"total": total,
			"page":  page,
			"limit": limit,
			"pages": int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// Review handles PUT /v1/membership/applications.  Approving an
// application opens its 7-day trial window.
func (h *MembershipHandler) Review(c echo.Context) error {
	var req model.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}

	app, err := h.svc.Review(c.Request().Context(), req, currentUser(c))
	if err != nil {
		var vErr *service.ValidationError
		if errors.As(err, &vErr) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"success": false,
				"error":   "Validation failed",
				"details": vErr.Fields,
			})
		}
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "Application not found"})
		}
		c.Logger().Errorf("membership: review failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "Failed to update application"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Application updated",
		"data":    app,
	})
}
