package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind identifies which identity space a principal belongs to. A session is
// bound to exactly one kind; usernames are unique within a kind, not globally.
type Kind string

const (
	KindPatient       Kind = "patient"
	KindPractitioner  Kind = "doctor"
	KindAdministrator Kind = "admin"
)

func (k Kind) Valid() bool {
	switch k {
	case KindPatient, KindPractitioner, KindAdministrator:
		return true
	}
	return false
}

// LoginPath is the login page an unauthenticated request for this kind's
// routes is redirected to.
func (k Kind) LoginPath() string {
	switch k {
	case KindPractitioner:
		return "/doctor/login"
	case KindAdministrator:
		return "/admin/login"
	default:
		return "/login"
	}
}

// Principal is one identity record. Patients carry the profile fields,
// practitioners additionally carry fees and a specialty category, and
// administrators carry only a phone number. PasswordHash never marshals
// to JSON.
type Principal struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Kind         Kind               `json:"kind" bson:"kind"`
	Username     string             `json:"username" bson:"username"`
	PasswordHash string             `json:"-" bson:"password"`
	Name         string             `json:"name,omitempty" bson:"name,omitempty"`
	DOB          string             `json:"dob,omitempty" bson:"dob,omitempty"`
	Gender       string             `json:"gender,omitempty" bson:"gender,omitempty"`
	Address      string             `json:"address,omitempty" bson:"address,omitempty"`
	PhoneNo      string             `json:"phoneNo,omitempty" bson:"phoneNo,omitempty"`
	Fees         float64            `json:"fees,omitempty" bson:"fees,omitempty"`
	Category     string             `json:"category,omitempty" bson:"category,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updatedAt"`
}

// ProfileUpdate carries the editable profile fields; nil means "leave as is".
type ProfileUpdate struct {
	Name     *string  `json:"name"`
	DOB      *string  `json:"dob"`
	Gender   *string  `json:"gender"`
	Address  *string  `json:"address"`
	PhoneNo  *string  `json:"phoneNo"`
	Fees     *float64 `json:"fees"`
	Category *string  `json:"category"`
}

// Session is the server-side record behind a session cookie. The cookie holds
// a signed reference to ID; expiry lives here and slides on each
// authenticated request.
type Session struct {
	ID          string    `bson:"_id"`
	Kind        Kind      `bson:"kind"`
	PrincipalID string    `bson:"principalId"`
	CreatedAt   time.Time `bson:"createdAt"`
	ExpiresAt   time.Time `bson:"expiresAt"`
}

// CartLine is one item entry in a cart. UnitCost is captured when the line is
// added and is the price the order will be computed from.
type CartLine struct {
	ItemID   string  `json:"itemId" bson:"itemId"`
	Name     string  `json:"name" bson:"name"`
	UnitCost float64 `json:"unitCost" bson:"unitCost"`
	Image    string  `json:"image,omitempty" bson:"image,omitempty"`
	Quantity int     `json:"quantity" bson:"quantity"`
}

// Cart is a patient's mutable pre-purchase collection, at most one per
// patient. Lines are unique by itemId.
type Cart struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerID   string             `json:"ownerId" bson:"ownerId"`
	Items     []CartLine         `json:"items" bson:"items"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updatedAt"`
}

// Total is the sum of unitCost x quantity over the cart's lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Items {
		total += line.UnitCost * float64(line.Quantity)
	}
	return total
}

// Order is the immutable snapshot produced by checkout. Items and Total are
// copied from the cart at checkout time and never recomputed.
type Order struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrderNo      string             `json:"orderNo" bson:"orderNo"`
	OwnerID      string             `json:"ownerId" bson:"ownerId"`
	Items        []CartLine         `json:"items" bson:"items"`
	Total        float64            `json:"total" bson:"total"`
	AttemptToken string             `json:"-" bson:"attemptToken,omitempty"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
}

// Test is one entry in the lab-test catalog.
type Test struct {
	ID   primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name"`
	Cost float64            `json:"cost" bson:"cost"`
}

// Product is one entry in the pharmacy catalog.
type Product struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Cost        float64            `json:"cost" bson:"cost"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
}

// TestAppointment is a patient's lab-test booking.
type TestAppointment struct {
	ID     primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name   string             `json:"name" bson:"name"`
	Date   string             `json:"date" bson:"date"`
	Time   string             `json:"time" bson:"time"`
	UserID string             `json:"userId" bson:"userId"`
	Report string             `json:"report,omitempty" bson:"report,omitempty"`
}

// DoctorAppointment is a patient's consultation booking.
type DoctorAppointment struct {
	ID     primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name   string             `json:"name" bson:"name"`
	Date   string             `json:"date" bson:"date"`
	Time   string             `json:"time" bson:"time"`
	UserID string             `json:"userId" bson:"userId"`
	Report string             `json:"report,omitempty" bson:"report,omitempty"`
}
