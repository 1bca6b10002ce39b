package service

import (
	"context"

	"cart-offer/internal/model"
)

// OfferService defines operations for offer management.
type OfferService interface {
	// CreateOffer validates the request and appends it to the offer store.
	// Validation failures are returned as *model.DomainError.
	CreateOffer(ctx context.Context, req *model.OfferRequest) (*model.OfferResponse, error)
}

// CartService defines operations on carts.
type CartService interface {
	// ApplyOffer returns the cart value after applying the first offer of the
	// restaurant that targets the user's segment.
	ApplyOffer(ctx context.Context, req *model.ApplyOfferRequest) (*model.ApplyOfferResponse, error)
}
