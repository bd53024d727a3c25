package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinicport/portal/models"
)

// Orders is the MongoDB order store. Orders are written once and never
// updated. A partial unique index on (ownerId, attemptToken) makes a retried
// checkout resolve to the order the first attempt created.
type Orders struct {
	col *mongo.Collection
}

func NewOrders(db *mongo.Database) *Orders {
	return &Orders{col: db.Collection("orders")}
}

func (s *Orders) Create(ctx context.Context, o models.Order) (*models.Order, error) {
	o.ID = primitive.NewObjectID()
	if o.OrderNo == "" {
		o.OrderNo = uuid.NewString()
	}
	o.CreatedAt = time.Now()

	_, err := s.col.InsertOne(ctx, o)
	if err == nil {
		return &o, nil
	}
	if mongo.IsDuplicateKeyError(err) && o.AttemptToken != "" {
		var existing models.Order
		findErr := s.col.FindOne(ctx, bson.M{"ownerId": o.OwnerID, "attemptToken": o.AttemptToken}).Decode(&existing)
		if findErr != nil {
			if errors.Is(findErr, mongo.ErrNoDocuments) {
				return nil, ErrNotFound
			}
			return nil, persistence("find order by attempt", findErr)
		}
		return &existing, nil
	}
	return nil, persistence("insert order", err)
}

func (s *Orders) ListByOwner(ctx context.Context, ownerID string) ([]models.Order, error) {
	cursor, err := s.col.Find(ctx, bson.M{"ownerId": ownerID})
	if err != nil {
		return nil, persistence("list orders", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, persistence("decode orders", err)
	}
	return orders, nil
}
