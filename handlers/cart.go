package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clinicport/portal/middleware"
	"github.com/clinicport/portal/models"
)

type addToCartRequest struct {
	ItemID   string  `json:"itemId" form:"itemId"`
	Name     string  `json:"name" form:"name"`
	UnitCost float64 `json:"unitCost" form:"unitCost"`
	Image    string  `json:"image" form:"image"`
	Quantity int     `json:"quantity" form:"quantity"`
}

// AddToCart merges the posted line into the patient's cart and returns the
// cart as it stands afterwards.
func (h *Handler) AddToCart(c *fiber.Ctx) error {
	principal := middleware.Current(c)

	var req addToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot parse request"})
	}
	if req.ItemID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "itemId is required"})
	}
	if req.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "quantity must be positive"})
	}
	if req.UnitCost < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unitCost must not be negative"})
	}

	line := models.CartLine{
		ItemID:   req.ItemID,
		Name:     req.Name,
		UnitCost: req.UnitCost,
		Image:    req.Image,
		Quantity: req.Quantity,
	}

	ctx, cancel := requestCtx()
	defer cancel()

	ownerID := principal.ID.Hex()
	if err := h.carts.AddItem(ctx, ownerID, line); err != nil {
		return h.fail(c, err)
	}

	cart, err := h.carts.Get(ctx, ownerID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cartView(cart))
}

// GetCart returns the patient's cart. No cart yet renders as the empty cart,
// not a failure.
func (h *Handler) GetCart(c *fiber.Ctx) error {
	principal := middleware.Current(c)

	ctx, cancel := requestCtx()
	defer cancel()

	cart, err := h.carts.Get(ctx, principal.ID.Hex())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cartView(cart))
}

func cartView(cart *models.Cart) fiber.Map {
	if cart == nil || len(cart.Items) == 0 {
		return fiber.Map{"items": []models.CartLine{}, "total": 0.0, "empty": true}
	}
	return fiber.Map{"items": cart.Items, "total": cart.Total(), "empty": false}
}
