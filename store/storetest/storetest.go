// Package storetest provides in-memory store implementations for tests.
// They honor the same contracts as the MongoDB stores: per-kind username
// uniqueness, indistinguishable credential failures, atomic cart merging,
// sliding session expiry, and attempt-token order deduplication.
package storetest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicport/portal/models"
	"github.com/clinicport/portal/store"
)

// Principals is an in-memory PrincipalStore for one kind.
type Principals struct {
	kind    models.Kind
	mu      sync.Mutex
	records map[string]models.Principal
}

var _ store.PrincipalStore = (*Principals)(nil)

func NewPrincipals(kind models.Kind) *Principals {
	return &Principals{kind: kind, records: map[string]models.Principal{}}
}

func (s *Principals) Register(_ context.Context, p models.Principal, secret string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.records {
		if existing.Username == p.Username {
			return "", store.ErrDuplicateUsername
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.MinCost)
	if err != nil {
		return "", err
	}

	p.ID = primitive.NewObjectID()
	p.Kind = s.kind
	p.PasswordHash = string(hash)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.records[p.ID.Hex()] = p
	return p.ID.Hex(), nil
}

func (s *Principals) Verify(_ context.Context, username, secret string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.records {
		if p.Username == username {
			if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(secret)) != nil {
				return "", store.ErrInvalidCredential
			}
			return id, nil
		}
	}
	return "", store.ErrInvalidCredential
}

func (s *Principals) FindByID(_ context.Context, id string) (*models.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Principals) Update(_ context.Context, id string, upd models.ProfileUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.records[id]
	if !ok {
		return store.ErrNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.DOB != nil {
		p.DOB = *upd.DOB
	}
	if upd.Gender != nil {
		p.Gender = *upd.Gender
	}
	if upd.Address != nil {
		p.Address = *upd.Address
	}
	if upd.PhoneNo != nil {
		p.PhoneNo = *upd.PhoneNo
	}
	if upd.Fees != nil {
		p.Fees = *upd.Fees
	}
	if upd.Category != nil {
		p.Category = *upd.Category
	}
	p.UpdatedAt = time.Now()
	s.records[id] = p
	return nil
}

func (s *Principals) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *Principals) List(_ context.Context) ([]models.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	principals := make([]models.Principal, 0, len(s.records))
	for _, p := range s.records {
		p.PasswordHash = ""
		principals = append(principals, p)
	}
	return principals, nil
}

// Sessions is an in-memory SessionStore.
type Sessions struct {
	mu      sync.Mutex
	records map[string]models.Session
}

var _ store.SessionStore = (*Sessions)(nil)

func NewSessions() *Sessions {
	return &Sessions{records: map[string]models.Session{}}
}

func (s *Sessions) Create(_ context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[sess.ID] = sess
	return nil
}

func (s *Sessions) FindAndTouch(_ context.Context, id string, expiresAt time.Time) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.records[id]
	if !ok || !sess.ExpiresAt.After(time.Now()) {
		return nil, store.ErrNotFound
	}
	sess.ExpiresAt = expiresAt
	s.records[id] = sess
	return &sess, nil
}

func (s *Sessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

// Has reports whether a session record exists, for test assertions.
func (s *Sessions) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[id]
	return ok
}

// Carts is an in-memory CartStore. The mutex makes each AddItem a single
// atomic read-modify-write, mirroring the single-write Mongo updates.
type Carts struct {
	mu      sync.Mutex
	records map[string]*models.Cart
}

var _ store.CartStore = (*Carts)(nil)

func NewCarts() *Carts {
	return &Carts{records: map[string]*models.Cart{}}
}

func (s *Carts) AddItem(_ context.Context, ownerID string, line models.CartLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	cart, ok := s.records[ownerID]
	if !ok {
		s.records[ownerID] = &models.Cart{
			ID:        primitive.NewObjectID(),
			OwnerID:   ownerID,
			Items:     []models.CartLine{line},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return nil
	}

	for i := range cart.Items {
		if cart.Items[i].ItemID == line.ItemID {
			cart.Items[i].Quantity += line.Quantity
			cart.UpdatedAt = now
			return nil
		}
	}
	cart.Items = append(cart.Items, line)
	cart.UpdatedAt = now
	return nil
}

func (s *Carts) Get(_ context.Context, ownerID string) (*models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.records[ownerID]
	if !ok {
		return nil, nil
	}
	snapshot := *cart
	snapshot.Items = append([]models.CartLine(nil), cart.Items...)
	return &snapshot, nil
}

func (s *Carts) Delete(_ context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, ownerID)
	return nil
}

// Orders is an in-memory OrderStore.
type Orders struct {
	mu      sync.Mutex
	records []models.Order
}

var _ store.OrderStore = (*Orders)(nil)

func NewOrders() *Orders {
	return &Orders{}
}

func (s *Orders) Create(_ context.Context, o models.Order) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.AttemptToken != "" {
		for _, existing := range s.records {
			if existing.OwnerID == o.OwnerID && existing.AttemptToken == o.AttemptToken {
				return &existing, nil
			}
		}
	}

	o.ID = primitive.NewObjectID()
	if o.OrderNo == "" {
		o.OrderNo = uuid.NewString()
	}
	o.CreatedAt = time.Now()
	s.records = append(s.records, o)
	return &o, nil
}

func (s *Orders) ListByOwner(_ context.Context, ownerID string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []models.Order
	for _, o := range s.records {
		if o.OwnerID == ownerID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

// Count reports the number of stored orders, for test assertions.
func (s *Orders) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Tests is an in-memory TestStore.
type Tests struct {
	mu      sync.Mutex
	records map[string]models.Test
}

var _ store.TestStore = (*Tests)(nil)

func NewTests() *Tests {
	return &Tests{records: map[string]models.Test{}}
}

func (s *Tests) Create(_ context.Context, t models.Test) (*models.Test, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = primitive.NewObjectID()
	s.records[t.ID.Hex()] = t
	return &t, nil
}

func (s *Tests) List(_ context.Context) ([]models.Test, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tests := make([]models.Test, 0, len(s.records))
	for _, t := range s.records {
		tests = append(tests, t)
	}
	return tests, nil
}

func (s *Tests) Get(_ context.Context, id string) (*models.Test, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s *Tests) Update(_ context.Context, id string, t models.Test) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.records[id]
	if !ok {
		return store.ErrNotFound
	}
	existing.Name = t.Name
	existing.Cost = t.Cost
	s.records[id] = existing
	return nil
}

func (s *Tests) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// Products is an in-memory ProductStore.
type Products struct {
	mu      sync.Mutex
	records map[string]models.Product
}

var _ store.ProductStore = (*Products)(nil)

func NewProducts() *Products {
	return &Products{records: map[string]models.Product{}}
}

func (s *Products) Create(_ context.Context, p models.Product) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = primitive.NewObjectID()
	s.records[p.ID.Hex()] = p
	return &p, nil
}

func (s *Products) List(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make([]models.Product, 0, len(s.records))
	for _, p := range s.records {
		products = append(products, p)
	}
	return products, nil
}

func (s *Products) Update(_ context.Context, id string, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.records[id]
	if !ok {
		return store.ErrNotFound
	}
	existing.Name = p.Name
	existing.Cost = p.Cost
	existing.Image = p.Image
	existing.Description = p.Description
	s.records[id] = existing
	return nil
}

func (s *Products) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

// Appointments is an in-memory AppointmentStore.
type Appointments struct {
	mu      sync.Mutex
	tests   []models.TestAppointment
	doctors []models.DoctorAppointment
}

var _ store.AppointmentStore = (*Appointments)(nil)

func NewAppointments() *Appointments {
	return &Appointments{}
}

func (s *Appointments) CreateTestAppointment(_ context.Context, a models.TestAppointment) (*models.TestAppointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = primitive.NewObjectID()
	s.tests = append(s.tests, a)
	return &a, nil
}

func (s *Appointments) CreateDoctorAppointment(_ context.Context, a models.DoctorAppointment) (*models.DoctorAppointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = primitive.NewObjectID()
	s.doctors = append(s.doctors, a)
	return &a, nil
}

func (s *Appointments) ListTestAppointments(_ context.Context, ownerID string) ([]models.TestAppointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var appointments []models.TestAppointment
	for _, a := range s.tests {
		if a.UserID == ownerID {
			appointments = append(appointments, a)
		}
	}
	return appointments, nil
}

func (s *Appointments) ListDoctorAppointments(_ context.Context, ownerID string) ([]models.DoctorAppointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var appointments []models.DoctorAppointment
	for _, a := range s.doctors {
		if a.UserID == ownerID {
			appointments = append(appointments, a)
		}
	}
	return appointments, nil
}
