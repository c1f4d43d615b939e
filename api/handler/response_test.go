package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"codebox/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		err         error
		wantStatus  int
		wantMessage string
	}{
		{err: service.ErrDuplicateEmail, wantStatus: http.StatusBadRequest, wantMessage: service.ErrDuplicateEmail.Error()},
		{err: fmt.Errorf("wrapped: %w", service.ErrMissingID), wantStatus: http.StatusBadRequest, wantMessage: "wrapped: id not provided"},
		{err: service.ErrInvalidOTP, wantStatus: http.StatusBadRequest, wantMessage: service.ErrInvalidOTP.Error()},
		{err: service.ErrUserNotFound, wantStatus: http.StatusNotFound, wantMessage: service.ErrUserNotFound.Error()},
		{err: service.ErrSnippetNotFound, wantStatus: http.StatusNotFound, wantMessage: service.ErrSnippetNotFound.Error()},
		{err: service.ErrSessionExpired, wantStatus: StatusSessionExpired, wantMessage: "Session expired!"},
		{err: service.ErrMailNotConfigured, wantStatus: http.StatusServiceUnavailable, wantMessage: service.ErrMailNotConfigured.Error()},
		{err: errors.New("connection reset"), wantStatus: http.StatusInternalServerError, wantMessage: "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			if err := writeServiceError(c, tt.err); err != nil {
				ErrorHandler(err, c)
			}

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body["error"])
		})
	}
}

func TestErrorHandler_HTTPError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	ErrorHandler(echo.NewHTTPError(http.StatusNotFound, "Can't find User!"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Can't find User!"}`, rec.Body.String())
}
