package offer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Engine applies the first matching offer of a restaurant to a cart value.
// It holds no state between calls.
type Engine struct {
	store  Store
	logger zerolog.Logger
}

// NewEngine creates a discount engine reading offers from store.
func NewEngine(store Store, logger zerolog.Logger) *Engine {
	return &Engine{
		store:  store,
		logger: logger.With().Str("component", "discount-engine").Logger(),
	}
}

// Apply returns the discounted cart value for a customer in segment.
// A restaurant without offers, a blank segment or a segment matching no offer
// all return the cart value unchanged. Negative cart values are treated as 0.
// The only error is a failed store lookup; the returned value is then the
// undiscounted cart value so callers can still answer.
func (e *Engine) Apply(ctx context.Context, restaurantID, cartValue int64, segment string) (int64, error) {
	cartValue = max(cartValue, 0)

	offers, err := e.store.Lookup(ctx, restaurantID)
	if err != nil {
		return cartValue, fmt.Errorf("failed to look up offers for restaurant %d: %w", restaurantID, err)
	}

	selected, ok := Select(offers, segment)
	if !ok {
		e.logger.Debug().
			Int64("restaurant_id", restaurantID).
			Str("segment", segment).
			Int("offer_count", len(offers)).
			Msg("no matching offer")
		return cartValue, nil
	}

	result := discounted(selected, cartValue)

	e.logger.Debug().
		Int64("restaurant_id", restaurantID).
		Str("segment", segment).
		Str("offer_id", selected.ID.String()).
		Int64("sequence", selected.Sequence).
		Int64("cart_value", cartValue).
		Int64("discounted_value", result).
		Msg("offer applied")

	return result, nil
}

// Select returns the offer with the lowest Sequence that targets segment.
func Select(offers []Offer, segment string) (Offer, bool) {
	var (
		selected Offer
		found    bool
	)
	for _, o := range offers {
		if !o.Targets(segment) {
			continue
		}
		if !found || o.Sequence < selected.Sequence {
			selected = o
			found = true
		}
	}
	return selected, found
}

// Discount returns the amount the offer takes off cartValue, before clamping.
// Percentages truncate: floor(cartValue*value/100).
func Discount(o Offer, cartValue int64) int64 {
	cartValue = max(cartValue, 0)

	switch o.Type {
	case FlatAmount:
		return o.Value
	case FlatPercentage:
		// Split to keep cartValue*value within int64.
		return cartValue/100*o.Value + cartValue%100*o.Value/100
	default:
		return 0
	}
}

// Compute selects the first matching offer and returns the discounted cart
// value, clamped to [0, cartValue].
func Compute(offers []Offer, segment string, cartValue int64) int64 {
	cartValue = max(cartValue, 0)

	selected, ok := Select(offers, segment)
	if !ok {
		return cartValue
	}
	return discounted(selected, cartValue)
}

func discounted(o Offer, cartValue int64) int64 {
	discount := Discount(o, cartValue)
	if discount >= cartValue {
		return 0
	}
	return cartValue - discount
}
