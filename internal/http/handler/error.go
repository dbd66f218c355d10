package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"hydraapi/internal/http/middleware"
	"hydraapi/internal/hydra"
	"hydraapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response.
// code is machine-readable (e.g. "INVALID_ID"); message must be safe to show to clients.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}

// scanErrors maps service and hydra errors to responses. Order matters: the first match wins.
var scanErrors = []struct {
	target error
	status int
	code   string
	expose bool
}{
	{hydra.ErrInvalidTarget, fiber.StatusBadRequest, "INVALID_TARGET", true},
	{hydra.ErrUnknownService, fiber.StatusBadRequest, "UNKNOWN_SERVICE", true},
	{hydra.ErrUnsupportedService, fiber.StatusBadRequest, "UNSUPPORTED_SERVICE", true},
	{hydra.ErrInvalidPort, fiber.StatusBadRequest, "INVALID_PORT", true},
	{hydra.ErrInvalidThreads, fiber.StatusBadRequest, "INVALID_THREADS", true},
	{hydra.ErrInvalidExportType, fiber.StatusBadRequest, "INVALID_EXPORT_TYPE", true},
	{hydra.ErrInvalidWaitTime, fiber.StatusBadRequest, "INVALID_WAIT_TIME", true},
	{hydra.ErrNoWordlist, fiber.StatusBadRequest, "WORDLIST_REQUIRED", true},
	{hydra.ErrWordlistNotFound, fiber.StatusBadRequest, "WORDLIST_NOT_FOUND", false},
	{service.ErrWordlistPath, fiber.StatusBadRequest, "INVALID_WORDLIST", true},
	{hydra.ErrBinaryNotFound, fiber.StatusServiceUnavailable, "HYDRA_UNAVAILABLE", false},
	{hydra.ErrBinaryNotExecutable, fiber.StatusServiceUnavailable, "HYDRA_UNAVAILABLE", false},
	{context.DeadlineExceeded, fiber.StatusGatewayTimeout, "HYDRA_TIMEOUT", false},
	{hydra.ErrHydra, fiber.StatusBadGateway, "HYDRA_FAILED", true},
	{hydra.ErrUnknownHydra, fiber.StatusBadGateway, "HYDRA_FAILED", false},
	{hydra.ErrDecode, fiber.StatusBadGateway, "HYDRA_FAILED", false},
	{service.ErrIDRequired, fiber.StatusBadRequest, "INVALID_ID", true},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", true},
	{service.ErrNoExport, fiber.StatusNotFound, "EXPORT_NOT_FOUND", true},
}

var safeMessages = map[string]string{
	"WORDLIST_NOT_FOUND": "wordlist file does not exist",
	"HYDRA_UNAVAILABLE":  "hydra is not available on this server",
	"HYDRA_TIMEOUT":      "hydra did not finish in time",
	"HYDRA_FAILED":       "hydra failed",
}

// writeServiceError translates err into the standardized error response.
// Unmapped errors become 500 without details.
func writeServiceError(c *fiber.Ctx, err error) error {
	for _, m := range scanErrors {
		if !errors.Is(err, m.target) {
			continue
		}
		msg := safeMessages[m.code]
		if m.expose {
			msg = err.Error()
			var exitErr *hydra.ExitError
			if errors.As(err, &exitErr) {
				msg = exitErr.Message
			}
		}
		return writeError(c, m.status, m.code, msg)
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
