package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxSafeInteger is the largest integer a JSON/JavaScript client can represent exactly.
const MaxSafeInteger = 1<<53 - 1

// Normalize prepares a sector, level, role or function label for comparison.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ParseRegistration parses an actor registration (matricula). Non-numeric input is
// rejected instead of coerced.
func ParseRegistration(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, Validation(fmt.Sprintf("registration %q is not a positive integer", s))
	}
	return n, nil
}

// ParseSafeInteger parses a hardware identifier that must survive a round trip through
// a JavaScript number.
func ParseSafeInteger(field, s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n > MaxSafeInteger || n < -MaxSafeInteger {
		return 0, Validation(fmt.Sprintf("%s must be a safe integer", field))
	}
	return n, nil
}

// Actor is an authenticated operator as known by the external actor registry.
type Actor struct {
	Registration int64     `json:"registration" bson:"registration"`
	Name         string    `json:"name" bson:"name"`
	Username     string    `json:"username" bson:"username"`
	Sector       string    `json:"sector" bson:"sector"`
	Function     string    `json:"function" bson:"function"`
	Level        string    `json:"level" bson:"level"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Identity is the live view of an actor used by every gating decision.
type Identity struct {
	Actor      Actor
	TeamMember *TeamMember
}

func (i *Identity) Registration() int64 { return i.Actor.Registration }
func (i *Identity) IsTeamMember() bool  { return i.TeamMember != nil }

// Approver is an actor registered as eligible to approve or reject project requests.
// Deleting an approver only clears Active.
type Approver struct {
	ID           string    `json:"id" bson:"_id"`
	Registration int64     `json:"registration" bson:"registration"`
	Name         string    `json:"name" bson:"name"`
	Sector       string    `json:"sector" bson:"sector"`
	Role         string    `json:"role" bson:"role"`
	Permission   *string   `json:"permission,omitempty" bson:"permission,omitempty"`
	Active       bool      `json:"active" bson:"active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// TeamMember links an actor to an operational role in the execution team.
type TeamMember struct {
	ID           string    `json:"id" bson:"_id"`
	Registration int64     `json:"registration" bson:"registration"`
	Name         string    `json:"name" bson:"name"`
	RFID         int64     `json:"rfid" bson:"rfid"`
	Barcode      int64     `json:"barcode" bson:"barcode"`
	Username     string    `json:"username" bson:"username"`
	Sector       string    `json:"sector" bson:"sector"`
	Role         string    `json:"role" bson:"role"`
	Level        string    `json:"level" bson:"level"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
