package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"imc-punching/internal/core/domain"
	"imc-punching/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error { return err })
	return app
}

func serve(t *testing.T, err error) (int, response.Response) {
	t.Helper()
	resp, testErr := errorApp(err).Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	require.NoError(t, readErr)
	var env response.Response
	require.NoError(t, json.Unmarshal(body, &env))
	return resp.StatusCode, env
}

func TestCustomErrorHandlerDomainErrors(t *testing.T) {
	cases := []struct {
		err     error
		code    int
		message string
	}{
		{fmt.Errorf("%w: customerName", domain.ErrMissingField), fiber.StatusBadRequest, "missing required field: customerName"},
		{domain.ErrPunchOutBeforePunchIn, fiber.StatusBadRequest, "punch-out must be after punch-in"},
		{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "Invalid credentials"},
		{domain.ErrTokenInvalid, fiber.StatusUnauthorized, "Token invalid"},
		{fmt.Errorf("%w: admin access required", domain.ErrForbidden), fiber.StatusForbidden, "Forbidden"},
		{domain.ErrNotFound, fiber.StatusNotFound, "Punch record not found"},
		{domain.ErrAlreadyCompleted, fiber.StatusConflict, "punch already completed"},
		{domain.ErrPayloadTooLarge, fiber.StatusRequestEntityTooLarge, "file too large"},
		{domain.ErrUnsupportedMediaType, fiber.StatusUnsupportedMediaType, "only image uploads are allowed"},
		{fiber.ErrRequestEntityTooLarge, fiber.StatusRequestEntityTooLarge, "file too large"},
		{fiber.ErrMethodNotAllowed, fiber.StatusMethodNotAllowed, "Method Not Allowed"},
	}

	for _, tc := range cases {
		code, env := serve(t, tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.Equal(t, response.StatusFail, env.Status, tc.err.Error())
		assert.Equal(t, tc.message, env.Message, tc.err.Error())
	}
}

func TestCustomErrorHandlerHidesInternalDetail(t *testing.T) {
	leaky := fmt.Errorf("%w: write photo: %w", domain.ErrInternal, errors.New("open /srv/uploads/x.jpg: permission denied"))
	// an internal failure wins even when it wraps a client error
	wrapped := fmt.Errorf("%w: %w", domain.ErrInternal, domain.ErrNotFound)

	for _, err := range []error{leaky, wrapped, errors.New("pq: connection refused"), fiber.ErrBadGateway} {
		code, env := serve(t, err)
		assert.Equal(t, fiber.StatusInternalServerError, code, err.Error())
		assert.Equal(t, response.StatusError, env.Status)
		assert.Equal(t, "Internal Server Error", env.Message)
	}
}
