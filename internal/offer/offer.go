package offer

import (
	"context"
	"slices"
	"time"

	"cart-offer/internal/model"

	"github.com/google/uuid"
)

// Type is the closed set of discount kinds an offer can carry.
type Type int

const (
	// FlatAmount subtracts a fixed amount from the cart value.
	FlatAmount Type = iota + 1
	// FlatPercentage subtracts a truncated percentage of the cart value.
	FlatPercentage
)

// Wire literals accepted for each offer type. Matching is exact and case-sensitive.
const (
	LiteralFlatAmount     = "FLATX"
	LiteralFlatPercentage = "FLAT%"
)

// MaxPercentage is the upper bound for FlatPercentage values.
const MaxPercentage = 100

// ParseType maps a wire literal to its Type.
func ParseType(literal string) (Type, bool) {
	switch literal {
	case LiteralFlatAmount:
		return FlatAmount, true
	case LiteralFlatPercentage:
		return FlatPercentage, true
	default:
		return 0, false
	}
}

// String returns the wire literal for the type.
func (t Type) String() string {
	switch t {
	case FlatAmount:
		return LiteralFlatAmount
	case FlatPercentage:
		return LiteralFlatPercentage
	default:
		return "UNKNOWN"
	}
}

// Offer is a discount rule scoped to a restaurant and a set of segments.
// Offers are values: once stored they are never modified.
type Offer struct {
	ID           uuid.UUID
	RestaurantID int64
	Type         Type
	Value        int64
	Segments     []string
	Sequence     int64
	CreatedAt    time.Time
}

// Targets reports whether the offer applies to the given segment.
// A blank segment never matches.
func (o Offer) Targets(segment string) bool {
	if segment == "" {
		return false
	}
	return slices.Contains(o.Segments, segment)
}

func (o Offer) clone() Offer {
	o.Segments = slices.Clone(o.Segments)
	return o
}

// Store holds registered offers keyed by restaurant, in insertion order.
type Store interface {
	// Add appends the offer to its restaurant's sequence and returns the stored
	// copy with Sequence (and ID, CreatedAt when unset) assigned.
	Add(ctx context.Context, o Offer) (Offer, error)

	// Lookup returns the restaurant's offers in insertion order.
	// An unknown restaurant yields an empty slice, not an error.
	Lookup(ctx context.Context, restaurantID int64) ([]Offer, error)
}

// Loader reads offer definitions from a seed file.
type Loader interface {
	// Load reads a gzipped file holding one JSON offer request per line.
	Load(ctx context.Context, path string) ([]model.OfferRequest, error)
}
