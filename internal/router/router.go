// Package router maps HTTP routes onto their handlers.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/ironpeak/gym-class-booking/internal/config"
	"github.com/ironpeak/gym-class-booking/internal/handler"
	"github.com/ironpeak/gym-class-booking/internal/middleware"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Bookings     *handler.BookingHandler
	Classes      *handler.ClassHandler
	Trainers     *handler.TrainerHandler
	Membership   *handler.MembershipHandler
	Contact      *handler.ContactHandler
	Newsletter   *handler.NewsletterHandler
	Testimonials *handler.TestimonialHandler
}

// RegisterRoutes wires the full API surface onto the Echo instance.
// Every /v1 route sits behind the identity resolver and the rate
// limiter.  The response cache is mounted only on the read-mostly
// catalog routes; booking reads stay uncached so availability always
// reflects the live seat counter.
func RegisterRoutes(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	v1 := e.Group("/v1")
	v1.Use(middleware.Identity(jwtSecret))
	v1.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))

	cached := middleware.ResponseCache(config.LoadCacheConfig(), rdb)

	// Booking lifecycle.
	v1.POST("/bookings", h.Bookings.Create)
	v1.GET("/bookings", h.Bookings.List)
	v1.GET("/bookings/:id", h.Bookings.Get)
	v1.PUT("/bookings/:id", h.Bookings.Update)
	v1.DELETE("/bookings/:id", h.Bookings.Delete)

	// Class catalog.
	v1.GET("/classes", h.Classes.List, cached)
	v1.GET("/classes/:id", h.Classes.Get, cached)
	v1.POST("/classes", h.Classes.Create)

	// Trainers.
	v1.GET("/trainers", h.Trainers.List, cached)
	v1.GET("/trainers/:id", h.Trainers.Get, cached)

	// Membership plans and applications.
	v1.GET("/membership/plans", h.Membership.Plans, cached)
	v1.POST("/membership/join", h.Membership.Join)
	v1.GET("/membership/applications", h.Membership.ListApplications)
	v1.PUT("/membership/applications", h.Membership.Review)

	// Site features.
	v1.POST("/contact", h.Contact.Create)
	v1.POST("/newsletter", h.Newsletter.Subscribe)
	v1.GET("/testimonials", h.Testimonials.List, cached)
	v1.POST("/testimonials", h.Testimonials.Create)
}
