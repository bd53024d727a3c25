package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clinicport/portal/models"
)

// Appointments holds the two booking collections. Both are flat owner-scoped
// records; the core only ever reads them filtered by the session's patient id.
type Appointments struct {
	tests   *mongo.Collection
	doctors *mongo.Collection
}

func NewAppointments(db *mongo.Database) *Appointments {
	return &Appointments{
		tests:   db.Collection("testappointments"),
		doctors: db.Collection("doctorappointments"),
	}
}

func (s *Appointments) CreateTestAppointment(ctx context.Context, a models.TestAppointment) (*models.TestAppointment, error) {
	a.ID = primitive.NewObjectID()
	if _, err := s.tests.InsertOne(ctx, a); err != nil {
		return nil, persistence("insert test appointment", err)
	}
	return &a, nil
}

func (s *Appointments) CreateDoctorAppointment(ctx context.Context, a models.DoctorAppointment) (*models.DoctorAppointment, error) {
	a.ID = primitive.NewObjectID()
	if _, err := s.doctors.InsertOne(ctx, a); err != nil {
		return nil, persistence("insert doctor appointment", err)
	}
	return &a, nil
}

func (s *Appointments) ListTestAppointments(ctx context.Context, ownerID string) ([]models.TestAppointment, error) {
	cursor, err := s.tests.Find(ctx, bson.M{"userId": ownerID})
	if err != nil {
		return nil, persistence("list test appointments", err)
	}
	defer cursor.Close(ctx)

	var appointments []models.TestAppointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, persistence("decode test appointments", err)
	}
	return appointments, nil
}

func (s *Appointments) ListDoctorAppointments(ctx context.Context, ownerID string) ([]models.DoctorAppointment, error) {
	cursor, err := s.doctors.Find(ctx, bson.M{"userId": ownerID})
	if err != nil {
		return nil, persistence("list doctor appointments", err)
	}
	defer cursor.Close(ctx)

	var appointments []models.DoctorAppointment
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, persistence("decode doctor appointments", err)
	}
	return appointments, nil
}
