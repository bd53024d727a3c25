package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinicport/portal/models"
)

// Tests is the lab-test catalog collection.
type Tests struct {
	col *mongo.Collection
}

func NewTests(db *mongo.Database) *Tests {
	return &Tests{col: db.Collection("tests")}
}

func (s *Tests) Create(ctx context.Context, t models.Test) (*models.Test, error) {
	t.ID = primitive.NewObjectID()
	if _, err := s.col.InsertOne(ctx, t); err != nil {
		return nil, persistence("insert test", err)
	}
	return &t, nil
}

func (s *Tests) List(ctx context.Context) ([]models.Test, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, persistence("list tests", err)
	}
	defer cursor.Close(ctx)

	var tests []models.Test
	if err := cursor.All(ctx, &tests); err != nil {
		return nil, persistence("decode tests", err)
	}
	return tests, nil
}

func (s *Tests) Get(ctx context.Context, id string) (*models.Test, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var t models.Test
	err = s.col.FindOne(ctx, bson.M{"_id": objectID}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, persistence("find test", err)
	}
	return &t, nil
}

func (s *Tests) Update(ctx context.Context, id string, t models.Test) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{"$set": bson.M{"name": t.Name, "cost": t.Cost}}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return persistence("update test", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Tests) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := s.col.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return persistence("delete test", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Products is the pharmacy catalog collection.
type Products struct {
	col *mongo.Collection
}

func NewProducts(db *mongo.Database) *Products {
	return &Products{col: db.Collection("products")}
}

func (s *Products) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	p.ID = primitive.NewObjectID()
	if _, err := s.col.InsertOne(ctx, p); err != nil {
		return nil, persistence("insert product", err)
	}
	return &p, nil
}

func (s *Products) List(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, persistence("list products", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, persistence("decode products", err)
	}
	return products, nil
}

func (s *Products) Update(ctx context.Context, id string, p models.Product) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"cost":        p.Cost,
		"image":       p.Image,
		"description": p.Description,
	}}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return persistence("update product", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Products) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := s.col.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return persistence("delete product", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
