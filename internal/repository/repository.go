package repository

import (
	"context"

	"cart-offer/internal/offer"
)

// OfferRepository is a durable offer.Store backed by PostgreSQL.
type OfferRepository interface {
	offer.Store

	// Count returns the number of stored offers across all restaurants.
	Count(ctx context.Context) (int64, error)

	// DeleteAll removes every offer. Intended for resetting state between test runs.
	DeleteAll(ctx context.Context) error
}
