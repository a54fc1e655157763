// Package middleware contains the HTTP middleware the server mounts in
// front of its handlers: caller identity resolution, redis-backed rate
// limiting and redis-backed response caching.
package middleware

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Identity resolves the caller's opaque user reference and stores it in
// the context under "user_ref".  Authentication is delegated to an
// external collaborator: when a Bearer token is present its subject
// claim is trusted as-is (signature verified when a secret is
// configured, claims-only parse otherwise), then the X-User-ID header
// is consulted, and finally the caller is treated as "guest".  The
// middleware never rejects a request.
func Identity(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ref := bearerSubject(c, jwtSecret); ref != "" {
				c.Set("user_ref", ref)
			} else if hdr := c.Request().Header.Get("X-User-ID"); hdr != "" {
				c.Set("user_ref", hdr)
			} else {
				c.Set("user_ref", "guest")
			}
			return next(c)
		}
	}
}

func bearerSubject(c echo.Context, secret string) string {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	var claims jwt.MapClaims
	if secret != "" {
		tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			return ""
		}
		claims, _ = tok.Claims.(jwt.MapClaims)
	} else {
		// No secret configured: decode claims without verification.
		tok, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
		if err != nil {
			return ""
		}
		claims, _ = tok.Claims.(jwt.MapClaims)
	}
	if claims == nil {
		return ""
	}
	if v, ok := claims["sub"].(string); ok && v != "" {
		return v
	}
	if v, ok := claims["user_id"].(string); ok && v != "" {
		return v
	}
	return ""
}

// userRef is shared by the rate limiter's key builder.
func userRef(c echo.Context) string {
	if v, ok := c.Get("user_ref").(string); ok && v != "" {
		return v
	}
	return "guest"
}
