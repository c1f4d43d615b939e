package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"codebox/internal/entity"
	"codebox/internal/service"

	"github.com/labstack/echo/v4"
)

type ActiveUserFinder interface {
	FindActiveUser(ctx context.Context, emailOrUsername string) (*entity.User, error)
}

// VerifyUser rejects requests whose emailOrUsername does not belong to an
// active user. GET requests carry the identifier in the query string, others
// in the body, which is restored for the next handler.
func VerifyUser(users ActiveUserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identifier, err := readIdentifier(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusNotFound, "Authentication Error").SetInternal(err)
			}
			if _, err := users.FindActiveUser(c.Request().Context(), identifier); err != nil {
				if errors.Is(err, service.ErrUserNotFound) {
					return echo.NewHTTPError(http.StatusNotFound, "Can't find User!")
				}
				return echo.NewHTTPError(http.StatusNotFound, "Authentication Error").SetInternal(err)
			}
			c.Set(contextIdentifierKey, identifier)
			return next(c)
		}
	}
}

func readIdentifier(c echo.Context) (string, error) {
	req := c.Request()
	if req.Method == http.MethodGet || req.Method == http.MethodHead {
		return c.QueryParam("emailOrUsername"), nil
	}

	contentType := req.Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		if req.Body == nil {
			return c.QueryParam("emailOrUsername"), nil
		}
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return "", err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		var payload struct {
			EmailOrUsername string `json:"emailOrUsername"`
		}
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				return "", err
			}
		}
		if payload.EmailOrUsername != "" {
			return payload.EmailOrUsername, nil
		}
		return c.QueryParam("emailOrUsername"), nil
	}

	if identifier := c.FormValue("emailOrUsername"); identifier != "" {
		return identifier, nil
	}
	return c.QueryParam("emailOrUsername"), nil
}
