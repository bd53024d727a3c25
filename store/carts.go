package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/clinicport/portal/models"
)

// Carts is the MongoDB cart store. One cart per owner, enforced by a unique
// index on ownerId; every mutation is a single server-side write so
// concurrent adds for the same owner merge instead of clobbering each other.
type Carts struct {
	col *mongo.Collection
}

func NewCarts(db *mongo.Database) *Carts {
	return &Carts{col: db.Collection("carts")}
}

// AddItem increments the matching line's quantity, or appends the line,
// creating the cart on first add. Both branches are single atomic writes;
// a read-modify-write round trip would lose concurrent updates.
func (s *Carts) AddItem(ctx context.Context, ownerID string, line models.CartLine) error {
	now := time.Now()

	for attempt := 0; attempt < 3; attempt++ {
		// Merge branch: positional $inc on an existing line.
		result, err := s.col.UpdateOne(ctx,
			bson.M{"ownerId": ownerID, "items.itemId": line.ItemID},
			bson.M{
				"$inc": bson.M{"items.$.quantity": line.Quantity},
				"$set": bson.M{"updatedAt": now},
			})
		if err != nil {
			return persistence("merge cart line", err)
		}
		if result.ModifiedCount > 0 {
			return nil
		}

		// Append branch: push the line onto a cart that lacks it, upserting
		// the cart itself when the owner has none yet.
		_, err = s.col.UpdateOne(ctx,
			bson.M{"ownerId": ownerID, "items.itemId": bson.M{"$ne": line.ItemID}},
			bson.M{
				"$push":        bson.M{"items": line},
				"$set":         bson.M{"updatedAt": now},
				"$setOnInsert": bson.M{"createdAt": now},
			},
			options.Update().SetUpsert(true))
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return persistence("append cart line", err)
		}
		// A concurrent add created the cart or the line between the two
		// writes; the merge branch will catch it on the next pass.
	}
	return persistence("add cart item", errors.New("upsert retries exhausted"))
}

func (s *Carts) Get(ctx context.Context, ownerID string) (*models.Cart, error) {
	var cart models.Cart
	err := s.col.FindOne(ctx, bson.M{"ownerId": ownerID}).Decode(&cart)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			// No cart yet is a normal empty state.
			return nil, nil
		}
		return nil, persistence("find cart", err)
	}
	return &cart, nil
}

func (s *Carts) Delete(ctx context.Context, ownerID string) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"ownerId": ownerID}); err != nil {
		return persistence("delete cart", err)
	}
	return nil
}
