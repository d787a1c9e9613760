package middleware

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/renotrack/renovation-tracker/internal/utils"
)

// Context keys written by JWTAuth.
const (
    ctxSubject = "subject"
    ctxRole    = "role"
)

// JWTAuth validates an HS256 bearer token signed with secret and stores
// its subject and role in the echo context.
func JWTAuth(secret string) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            auth := c.Request().Header.Get(echo.HeaderAuthorization)
            if !strings.HasPrefix(auth, "Bearer ") {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
            }
            claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
            if err != nil {
                return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
            }
            c.Set(ctxSubject, claims.Subject)
            c.Set(ctxRole, claims.Role)
            return next(c)
        }
    }
}
