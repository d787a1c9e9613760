package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireRole rejects with 403 any request whose token role is not one
// of roles.  It must run after JWTAuth.
func RequireRole(roles ...string) echo.MiddlewareFunc {
    allowed := make(map[string]bool, len(roles))
    for _, r := range roles {
        allowed[r] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            role, _ := c.Get(ctxRole).(string)
            if !allowed[role] {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
            }
            return next(c)
        }
    }
}

// Protect chains JWTAuth and RequireRole.  An empty secret disables
// authentication and the returned middleware passes everything through.
func Protect(secret string, roles ...string) echo.MiddlewareFunc {
    if secret == "" {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    auth := JWTAuth(secret)
    role := RequireRole(roles...)
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return auth(role(next))
    }
}
