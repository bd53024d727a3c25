package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicport/portal/models"
)

// Principals is the MongoDB credential store for one principal kind. Each
// kind has its own collection, so usernames are unique per kind only.
type Principals struct {
	col  *mongo.Collection
	kind models.Kind
}

func NewPrincipals(db *mongo.Database, kind models.Kind, collection string) *Principals {
	return &Principals{col: db.Collection(collection), kind: kind}
}

// dummyHash is a throwaway bcrypt hash compared against when the username
// does not exist, keeping both login failure modes on the same code path.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

func (s *Principals) Register(ctx context.Context, p models.Principal, secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", persistence("hash password", err)
	}

	p.ID = primitive.NilObjectID
	p.Kind = s.kind
	p.PasswordHash = string(hash)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	result, err := s.col.InsertOne(ctx, p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateUsername
		}
		return "", persistence("insert principal", err)
	}
	return result.InsertedID.(primitive.ObjectID).Hex(), nil
}

func (s *Principals) Verify(ctx context.Context, username, secret string) (string, error) {
	var p models.Principal
	err := s.col.FindOne(ctx, bson.M{"username": username}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Burn a compare anyway so an unknown username costs the same as
			// a wrong password.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(secret))
			return "", ErrInvalidCredential
		}
		return "", persistence("find principal", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(secret)); err != nil {
		return "", ErrInvalidCredential
	}
	return p.ID.Hex(), nil
}

func (s *Principals) FindByID(ctx context.Context, id string) (*models.Principal, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var p models.Principal
	err = s.col.FindOne(ctx, bson.M{"_id": objectID}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, persistence("find principal", err)
	}
	return &p, nil
}

func (s *Principals) Update(ctx context.Context, id string, upd models.ProfileUpdate) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	set := bson.M{"updatedAt": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.DOB != nil {
		set["dob"] = *upd.DOB
	}
	if upd.Gender != nil {
		set["gender"] = *upd.Gender
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.PhoneNo != nil {
		set["phoneNo"] = *upd.PhoneNo
	}
	if upd.Fees != nil {
		set["fees"] = *upd.Fees
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}

	result, err := s.col.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return persistence("update principal", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Principals) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	result, err := s.col.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return persistence("delete principal", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Principals) List(ctx context.Context) ([]models.Principal, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, persistence("list principals", err)
	}
	defer cursor.Close(ctx)

	var principals []models.Principal
	if err := cursor.All(ctx, &principals); err != nil {
		return nil, persistence("decode principals", err)
	}
	for i := range principals {
		principals[i].PasswordHash = ""
	}
	return principals, nil
}
