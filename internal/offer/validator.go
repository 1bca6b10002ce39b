package offer

import (
	"strings"

	"cart-offer/internal/model"

	"github.com/rs/zerolog"
)

// Validator gates offer creation. It never touches a Store.
type Validator struct {
	logger zerolog.Logger
}

// NewValidator creates a new offer validator.
func NewValidator(logger zerolog.Logger) *Validator {
	return &Validator{
		logger: logger.With().Str("component", "offer-validator").Logger(),
	}
}

// Validate checks an offer request and converts it into an Offer ready for
// Store.Add. Rules are checked in order and the first failure is returned:
// - restaurant ID must be positive
// - offer type must be exactly FLATX or FLAT%
// - value must be non-negative, and at most 100 for FLAT%
// - segments must hold at least one label and no blank labels
func (v *Validator) Validate(req *model.OfferRequest) (Offer, error) {
	if req == nil {
		req = &model.OfferRequest{}
	}

	if req.RestaurantID <= 0 {
		v.reject(req, model.ErrInvalidRestaurantID)
		return Offer{}, model.ErrInvalidRestaurantID
	}

	offerType, ok := ParseType(req.OfferType)
	if !ok {
		v.reject(req, model.ErrInvalidOfferType)
		return Offer{}, model.ErrInvalidOfferType
	}

	if req.OfferValue < 0 || (offerType == FlatPercentage && req.OfferValue > MaxPercentage) {
		v.reject(req, model.ErrInvalidOfferValue)
		return Offer{}, model.ErrInvalidOfferValue
	}

	segments, ok := normaliseSegments(req.Segments)
	if !ok {
		v.reject(req, model.ErrEmptySegments)
		return Offer{}, model.ErrEmptySegments
	}

	return Offer{
		RestaurantID: req.RestaurantID,
		Type:         offerType,
		Value:        req.OfferValue,
		Segments:     segments,
	}, nil
}

func (v *Validator) reject(req *model.OfferRequest, err *model.DomainError) {
	v.logger.Debug().
		Int64("restaurant_id", req.RestaurantID).
		Str("offer_type", req.OfferType).
		Int64("offer_value", req.OfferValue).
		Int("segment_count", len(req.Segments)).
		Str("code", err.Code).
		Msg("offer request rejected")
}

// normaliseSegments drops duplicate labels, keeping first occurrence order.
// It reports false for an empty list or any blank label.
func normaliseSegments(labels []string) ([]string, bool) {
	if len(labels) == 0 {
		return nil, false
	}

	seen := make(map[string]struct{}, len(labels))
	segments := make([]string, 0, len(labels))
	for _, label := range labels {
		if strings.TrimSpace(label) == "" {
			return nil, false
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		segments = append(segments, label)
	}

	return segments, true
}
