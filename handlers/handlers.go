package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/clinicport/portal/store"
)

// Handler carries the injected stores. The registry and the session/cart/
// order stores are interfaces so the HTTP surface can be exercised without a
// live MongoDB.
type Handler struct {
	registry     *store.Registry
	sessions     store.SessionStore
	carts        store.CartStore
	orders       store.OrderStore
	checkout     *store.Checkout
	tests        store.TestStore
	products     store.ProductStore
	appointments store.AppointmentStore
	sessionKey   []byte
	sessionIdle  time.Duration
}

// Config is the handler wiring, built once in main.
type Config struct {
	Registry     *store.Registry
	Sessions     store.SessionStore
	Carts        store.CartStore
	Orders       store.OrderStore
	Tests        store.TestStore
	Products     store.ProductStore
	Appointments store.AppointmentStore
	SessionKey   []byte
	SessionIdle  time.Duration
}

func New(cfg Config) *Handler {
	return &Handler{
		registry:     cfg.Registry,
		sessions:     cfg.Sessions,
		carts:        cfg.Carts,
		orders:       cfg.Orders,
		checkout:     store.NewCheckout(cfg.Carts, cfg.Orders),
		tests:        cfg.Tests,
		products:     cfg.Products,
		appointments: cfg.Appointments,
		sessionKey:   cfg.SessionKey,
		sessionIdle:  cfg.SessionIdle,
	}
}

func requestCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// fail maps the store error taxonomy onto HTTP outcomes. User-state errors
// travel to the caller; persistence failures are logged and turn generic.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicateUsername):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": store.ErrDuplicateUsername.Error()})
	case errors.Is(err, store.ErrInvalidCredential):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": store.ErrInvalidCredential.Error()})
	case errors.Is(err, store.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": store.ErrEmptyCart.Error()})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	default:
		log.Printf("handler: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
