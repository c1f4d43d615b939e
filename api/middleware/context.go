package middleware

import (
	"codebox/internal/utils"

	"github.com/labstack/echo/v4"
)

const (
	contextClaimsKey     = "auth_claims"
	contextIdentifierKey = "verified_identifier"
)

func SetAuthContext(c echo.Context, claims *utils.AccessClaims) {
	c.Set(contextClaimsKey, claims)
}

func ClaimsFromContext(c echo.Context) (*utils.AccessClaims, bool) {
	claims, ok := c.Get(contextClaimsKey).(*utils.AccessClaims)
	return claims, ok && claims != nil
}

func UserIDFromContext(c echo.Context) (string, bool) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

func RoleFromContext(c echo.Context) (string, bool) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return "", false
	}
	return claims.Role, true
}

// IdentifierFromContext returns the emailOrUsername accepted by VerifyUser.
func IdentifierFromContext(c echo.Context) (string, bool) {
	identifier, ok := c.Get(contextIdentifierKey).(string)
	return identifier, ok
}
