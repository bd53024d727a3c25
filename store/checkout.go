package store

import (
	"context"
	"log"

	"github.com/clinicport/portal/models"
)

// Checkout converts a cart into an immutable order. The order write is
// strictly ordered before the cart delete: a failure between the two leaves
// an order plus a stale cart, never a paid order that vanished.
type Checkout struct {
	Carts  CartStore
	Orders OrderStore
}

func NewCheckout(carts CartStore, orders OrderStore) *Checkout {
	return &Checkout{Carts: carts, Orders: orders}
}

// Run checks out ownerID's cart. attemptToken may be empty; when set, a retry
// of the same attempt returns the original order instead of a duplicate.
func (c *Checkout) Run(ctx context.Context, ownerID, attemptToken string) (*models.Order, error) {
	cart, err := c.Carts.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	order := models.Order{
		OwnerID:      ownerID,
		Items:        append([]models.CartLine(nil), cart.Items...),
		Total:        cart.Total(),
		AttemptToken: attemptToken,
	}

	created, err := c.Orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := c.Carts.Delete(ctx, ownerID); err != nil {
		// The order is durable; the stale cart is an accepted inconsistency
		// window. Do not roll back the order.
		log.Printf("checkout: order %s created but cart %s not cleared: %v", created.OrderNo, ownerID, err)
	}
	return created, nil
}
