package store

import (
	"context"
	"time"

	"github.com/clinicport/portal/models"
)

// PrincipalStore persists one kind's identity records and verifies secrets.
// Secrets are never retrievable through any read operation.
type PrincipalStore interface {
	// Register creates a record and returns its id. The store tags the record
	// with its own kind. Fails with ErrDuplicateUsername on a username
	// conflict within this store.
	Register(ctx context.Context, p models.Principal, secret string) (string, error)

	// Verify checks username/secret against this store only and returns the
	// principal id. Unknown username and wrong secret both fail with
	// ErrInvalidCredential.
	Verify(ctx context.Context, username, secret string) (string, error)

	FindByID(ctx context.Context, id string) (*models.Principal, error)
	Update(ctx context.Context, id string, upd models.ProfileUpdate) error
	Delete(ctx context.Context, id string) error

	// List returns all records in this store with credential material blanked.
	List(ctx context.Context) ([]models.Principal, error)
}

// SessionStore holds the authoritative session records.
type SessionStore interface {
	Create(ctx context.Context, s models.Session) error

	// FindAndTouch returns the live session for id and slides its expiry to
	// expiresAt in the same operation. An expired or unknown id fails with
	// ErrNotFound.
	FindAndTouch(ctx context.Context, id string, expiresAt time.Time) (*models.Session, error)

	// Delete always succeeds for an already-absent id.
	Delete(ctx context.Context, id string) error
}

// CartStore maintains the one-cart-per-patient collection.
type CartStore interface {
	// AddItem merges line into the owner's cart: an existing line with the
	// same itemId has its quantity incremented, otherwise the line is
	// appended, creating the cart if absent. The whole operation is atomic
	// with respect to concurrent AddItem/Delete calls for the same owner.
	AddItem(ctx context.Context, ownerID string, line models.CartLine) error

	// Get returns (nil, nil) when the owner has no cart; that is a normal
	// empty state, not an error.
	Get(ctx context.Context, ownerID string) (*models.Cart, error)

	Delete(ctx context.Context, ownerID string) error
}

// OrderStore persists immutable order snapshots.
type OrderStore interface {
	// Create inserts the order. When o.AttemptToken is set and an order for
	// (ownerId, attemptToken) already exists, the existing order is returned
	// instead of creating a second one.
	Create(ctx context.Context, o models.Order) (*models.Order, error)

	ListByOwner(ctx context.Context, ownerID string) ([]models.Order, error)
}

// TestStore is the lab-test catalog.
type TestStore interface {
	Create(ctx context.Context, t models.Test) (*models.Test, error)
	List(ctx context.Context) ([]models.Test, error)
	Get(ctx context.Context, id string) (*models.Test, error)
	Update(ctx context.Context, id string, t models.Test) error
	Delete(ctx context.Context, id string) error
}

// ProductStore is the pharmacy catalog.
type ProductStore interface {
	Create(ctx context.Context, p models.Product) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	Update(ctx context.Context, id string, p models.Product) error
	Delete(ctx context.Context, id string) error
}

// AppointmentStore holds both booking collections, owner-scoped.
type AppointmentStore interface {
	CreateTestAppointment(ctx context.Context, a models.TestAppointment) (*models.TestAppointment, error)
	CreateDoctorAppointment(ctx context.Context, a models.DoctorAppointment) (*models.DoctorAppointment, error)
	ListTestAppointments(ctx context.Context, ownerID string) ([]models.TestAppointment, error)
	ListDoctorAppointments(ctx context.Context, ownerID string) ([]models.DoctorAppointment, error)
}
