package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicport/portal/middleware"
	"github.com/clinicport/portal/models"
)

// CheckoutPreview shows the cart and the total the checkout would charge.
func (h *Handler) CheckoutPreview(c *fiber.Ctx) error {
	return h.GetCart(c)
}

type checkoutRequest struct {
	AttemptToken string `json:"attemptToken" form:"attemptToken"`
}

// CheckoutSubmit converts the cart into an order. With an attemptToken a
// retried submit returns the order the first attempt created; without one
// the checkout is at-most-once and never retried automatically.
func (h *Handler) CheckoutSubmit(c *fiber.Ctx) error {
	principal := middleware.Current(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse request"})
	}

	ctx, cancel := requestCtx()
	defer cancel()

	order, err := h.checkout.Run(ctx, principal.ID.Hex(), req.AttemptToken)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// Orders lists the patient's past orders.
func (h *Handler) Orders(c *fiber.Ctx) error {
	principal := middleware.Current(c)

	ctx, cancel := requestCtx()
	defer cancel()

	orders, err := h.orders.ListByOwner(ctx, principal.ID.Hex())
	if err != nil {
		return h.fail(c, err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return c.JSON(fiber.Map{"orders": orders})
}
