// Package api exposes the billing services as a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"society/internal/billing"
	"society/internal/expense"
	"society/internal/ledger"
	"society/internal/logger"
	"society/internal/payment"
	"society/internal/storage"
)

// Services are the collaborators the handlers call into.
type Services struct {
	Store    storage.Store
	Bills    *billing.Generator
	Payments *payment.Service
	Expenses *expense.Service
	// Now is the clock used by reports. Defaults to time.Now.
	Now func() time.Time
}

type handler struct {
	Services
	log zerolog.Logger
}

// NewApp builds the fiber application with every route registered.
// A positive timeout bounds the context handed to the services.
func NewApp(svc Services, timeout time.Duration) *fiber.App {
	if svc.Now == nil {
		svc.Now = time.Now
	}
	h := &handler{Services: svc, log: logger.WithComponent("api")}

	app := fiber.New(fiber.Config{
		AppName:               "society",
		ErrorHandler:          h.errorHandler,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(h.requestLogger)
	if timeout > 0 {
		app.Use(withTimeout(timeout))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	setupBillRoutes(api, h)
	setupPaymentRoutes(api, h)
	setupReportRoutes(api, h)
	setupExpenseRoutes(api, h)

	return app
}

func withTimeout(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func (h *handler) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	evt := h.log.Info()
	if err != nil {
		status = statusFor(err)
		evt = h.log.Warn().Err(err)
		if status >= fiber.StatusInternalServerError {
			evt = h.log.Error().Err(err)
		}
	}
	evt.
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Msg("Request handled")
	return err
}

func (h *handler) errorHandler(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"code":    code,
	})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}

	switch {
	case errors.Is(err, billing.ErrBillNotFound),
		errors.Is(err, payment.ErrBillNotFound),
		errors.Is(err, payment.ErrFlatNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, ledger.ErrFlatNotFound),
		errors.Is(err, expense.ErrExpenseNotFound):
		return fiber.StatusNotFound

	case errors.Is(err, billing.ErrBillsExist),
		errors.Is(err, billing.ErrBillHasPayments):
		return fiber.StatusConflict

	case errors.Is(err, billing.ErrInvalidPeriod),
		errors.Is(err, billing.ErrNoActiveFlats),
		errors.Is(err, payment.ErrInvalidAmount),
		errors.Is(err, payment.ErrInvalidMode),
		errors.Is(err, payment.ErrMissingDate),
		errors.Is(err, payment.ErrBillFlatMismatch),
		errors.Is(err, expense.ErrOutsideFinancialYear),
		errors.Is(err, expense.ErrInvalidCategory),
		errors.Is(err, expense.ErrMissingDescription),
		errors.Is(err, expense.ErrInvalidAmount),
		errors.Is(err, expense.ErrInvalidPaymentMode):
		return fiber.StatusBadRequest

	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	}
	return fiber.StatusInternalServerError
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}
