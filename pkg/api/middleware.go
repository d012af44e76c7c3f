package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/placement-allocator/pkg/metrics"
)

// AppError carries an HTTP status and client-safe message alongside the cause
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func NewAppError(statusCode int, message string, data interface{}, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Data: data, Cause: cause}
}

// errorMiddleware recovers panics and renders returned errors in the response envelope.
// 5xx causes are logged but never shown to the client.
func errorMiddleware(logger *zap.Logger) fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic recovered",
					zap.String("path", c.Path()),
					zap.String("panic", fmt.Sprint(r)))
				err = Error(c, fiber.StatusInternalServerError, MessageInternalServerError, nil)
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, msg, data := normalizeError(err)
		if status >= fiber.StatusInternalServerError {
			logger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
		}
		return Error(c, status, msg, data)
	}
}

func normalizeError(err error) (int, string, interface{}) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 || status >= fiber.StatusInternalServerError {
			return fiber.StatusInternalServerError, MessageInternalServerError, nil
		}
		msg := appErr.Message
		if msg == "" {
			msg = defaultMessageForStatus(status)
		}
		return status, msg, appErr.Data
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= fiber.StatusInternalServerError {
			return fiber.StatusInternalServerError, MessageInternalServerError, nil
		}
		msg := fiberErr.Message
		if msg == "" {
			msg = defaultMessageForStatus(status)
		}
		return status, msg, nil
	}

	return fiber.StatusInternalServerError, MessageInternalServerError, nil
}

// accessLogMiddleware logs each request and feeds request metrics.
// It must run outside errorMiddleware so it sees the final status code.
func accessLogMiddleware(logger *zap.Logger, recorder *metrics.Recorder) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("X-Request-ID", rid)

		err := c.Next()

		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		logger.Debug("HTTP access",
			zap.String("request_id", rid),
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("ip", c.IP()))

		if recorder != nil {
			recorder.ObserveHTTPRequest(c.Method(), route, status, elapsed)
		}

		return err
	}
}
