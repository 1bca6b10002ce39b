package service

import (
	"context"
	"fmt"

	"cart-offer/internal/model"
	"cart-offer/internal/offer"
	"cart-offer/internal/segment"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	engine   *offer.Engine
	resolver segment.Resolver
	logger   zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(engine *offer.Engine, resolver segment.Resolver, logger zerolog.Logger) CartService {
	return &cartService{
		engine:   engine,
		resolver: resolver,
		logger:   logger.With().Str("service", "cart").Logger(),
	}
}

// ApplyOffer never fails on segment or store trouble: those are logged and the
// cart value is returned undiscounted.
func (s *cartService) ApplyOffer(ctx context.Context, req *model.ApplyOfferRequest) (*model.ApplyOfferResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("apply offer request is nil")
	}

	userSegment, err := s.resolver.Resolve(ctx, req.UserID)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Int64("user_id", req.UserID).
			Msg("segment lookup failed, applying no offer")
		userSegment = ""
	}

	result, err := s.engine.Apply(ctx, req.RestaurantID, req.CartValue, userSegment)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("restaurant_id", req.RestaurantID).
			Msg("offer lookup failed, applying no offer")
	}

	s.logger.Debug().
		Int64("restaurant_id", req.RestaurantID).
		Int64("user_id", req.UserID).
		Str("segment", userSegment).
		Int64("cart_value", req.CartValue).
		Int64("result", result).
		Msg("cart evaluated")

	return &model.ApplyOfferResponse{CartValue: result}, nil
}
