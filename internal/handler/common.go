package handler

import "github.com/labstack/echo/v4"

// currentUser returns the opaque user reference resolved by the
// identity middleware.  Authentication itself is out of scope; the
// reference is whatever the upstream identity collaborator supplied,
// falling back to "guest".
func currentUser(c echo.Context) string {
	if v, ok := c.Get("user_ref").(string); ok && v != "" {
		return v
	}
	return "guest"
}

// clientIP returns the caller's address for audit columns.
func clientIP(c echo.Context) string {
	if ip := c.RealIP(); ip != "" {
		return ip
	}
	return "unknown"
}
