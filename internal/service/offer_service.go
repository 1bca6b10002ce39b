package service

import (
	"context"
	"fmt"

	"cart-offer/internal/model"
	"cart-offer/internal/offer"

	"github.com/rs/zerolog"
)

// offerService implements OfferService.
type offerService struct {
	store     offer.Store
	validator *offer.Validator
	logger    zerolog.Logger
}

// NewOfferService creates a new offer service.
func NewOfferService(store offer.Store, validator *offer.Validator, logger zerolog.Logger) OfferService {
	return &offerService{
		store:     store,
		validator: validator,
		logger:    logger.With().Str("service", "offer").Logger(),
	}
}

// CreateOffer validates the request and stores the resulting offer.
func (s *offerService) CreateOffer(ctx context.Context, req *model.OfferRequest) (*model.OfferResponse, error) {
	o, err := s.validator.Validate(req)
	if err != nil {
		return nil, err
	}

	stored, err := s.store.Add(ctx, o)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("restaurant_id", o.RestaurantID).
			Msg("failed to store offer")
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	s.logger.Info().
		Str("offer_id", stored.ID.String()).
		Int64("restaurant_id", stored.RestaurantID).
		Str("offer_type", stored.Type.String()).
		Int64("offer_value", stored.Value).
		Strs("segments", stored.Segments).
		Int64("sequence", stored.Sequence).
		Msg("offer created successfully")

	return &model.OfferResponse{ResponseMsg: model.ResponseMsgSuccess}, nil
}

// Register adapts CreateOffer to offer.SeedFunc for startup seeding.
func Register(svc OfferService) offer.SeedFunc {
	return func(ctx context.Context, req *model.OfferRequest) error {
		_, err := svc.CreateOffer(ctx, req)
		return err
	}
}
