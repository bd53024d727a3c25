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

// Sessions is the MongoDB session store. A TTL index on expiresAt reaps idle
// sessions; FindAndTouch additionally filters on expiresAt so an expired
// session is anonymous immediately, not only after the reaper runs.
type Sessions struct {
	col *mongo.Collection
}

func NewSessions(db *mongo.Database) *Sessions {
	return &Sessions{col: db.Collection("sessions")}
}

func (s *Sessions) Create(ctx context.Context, sess models.Session) error {
	if _, err := s.col.InsertOne(ctx, sess); err != nil {
		return persistence("insert session", err)
	}
	return nil
}

func (s *Sessions) FindAndTouch(ctx context.Context, id string, expiresAt time.Time) (*models.Session, error) {
	filter := bson.M{"_id": id, "expiresAt": bson.M{"$gt": time.Now()}}
	update := bson.M{"$set": bson.M{"expiresAt": expiresAt}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var sess models.Session
	err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&sess)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, persistence("touch session", err)
	}
	return &sess, nil
}

func (s *Sessions) Delete(ctx context.Context, id string) error {
	// Deleting an unknown session is a success; logout never fails for a
	// stale token.
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return persistence("delete session", err)
	}
	return nil
}
