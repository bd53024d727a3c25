package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the stores rely on. The cart and order
// uniqueness constraints are load-bearing: the cart upsert and the checkout
// idempotency both depend on the server rejecting a second document.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	for _, collection := range []string{"users", "doctors", "admins"} {
		_, err := db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: unique,
		})
		if err != nil {
			return persistence("index "+collection+".username", err)
		}
	}

	_, err := db.Collection("carts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}},
		Options: unique,
	})
	if err != nil {
		return persistence("index carts.ownerId", err)
	}

	_, err = db.Collection("sessions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return persistence("index sessions.expiresAt", err)
	}

	_, err = db.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "attemptToken", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"attemptToken": bson.M{"$exists": true}}),
	})
	if err != nil {
		return persistence("index orders attempt token", err)
	}

	return nil
}
