package offer

import (
	"testing"

	"cart-offer/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		literal  string
		expected Type
		ok       bool
	}{
		{literal: "FLATX", expected: FlatAmount, ok: true},
		{literal: "FLAT%", expected: FlatPercentage, ok: true},
		{literal: "flatx", ok: false},
		{literal: "FlatX", ok: false},
		{literal: "flat%", ok: false},
		{literal: " FLATX", ok: false},
		{literal: "INVALID_TYPE", ok: false},
		{literal: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			got, ok := ParseType(tt.literal)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
				assert.Equal(t, tt.literal, got.String())
			}
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	validator := NewValidator(zerolog.Nop())

	tests := []struct {
		name      string
		req       *model.OfferRequest
		expectErr error
	}{
		{
			name: "Valid FLATX offer",
			req:  &model.OfferRequest{RestaurantID: 1, OfferType: "FLATX", OfferValue: 10, Segments: []string{"p1"}},
		},
		{
			name: "Valid percentage offer",
			req:  &model.OfferRequest{RestaurantID: 2, OfferType: "FLAT%", OfferValue: 15, Segments: []string{"p2"}},
		},
		{
			name: "Multi-segment offer",
			req:  &model.OfferRequest{RestaurantID: 4, OfferType: "FLATX", OfferValue: 25, Segments: []string{"p1", "p2"}},
		},
		{
			name: "Zero discount offer",
			req:  &model.OfferRequest{RestaurantID: 6, OfferType: "FLATX", OfferValue: 0, Segments: []string{"p1"}},
		},
		{
			name: "100 percent offer",
			req:  &model.OfferRequest{RestaurantID: 7, OfferType: "FLAT%", OfferValue: 100, Segments: []string{"p1"}},
		},
		{
			name: "Flat amount above 100",
			req:  &model.OfferRequest{RestaurantID: 7, OfferType: "FLATX", OfferValue: 500, Segments: []string{"p1"}},
		},
		{
			name:      "Lowercase offer type",
			req:       &model.OfferRequest{RestaurantID: 8, OfferType: "flatx", OfferValue: 10, Segments: []string{"p1"}},
			expectErr: model.ErrInvalidOfferType,
		},
		{
			name:      "Mixed case offer type",
			req:       &model.OfferRequest{RestaurantID: 9, OfferType: "FlatX", OfferValue: 10, Segments: []string{"p1"}},
			expectErr: model.ErrInvalidOfferType,
		},
		{
			name:      "Unknown offer type",
			req:       &model.OfferRequest{RestaurantID: 12, OfferType: "INVALID_TYPE", OfferValue: 10, Segments: []string{"p1"}},
			expectErr: model.ErrInvalidOfferType,
		},
		{
			name:      "Negative discount value",
			req:       &model.OfferRequest{RestaurantID: 10, OfferType: "FLATX", OfferValue: -5, Segments: []string{"p1"}},
			expectErr: model.ErrInvalidOfferValue,
		},
		{
			name:      "Percentage over 100",
			req:       &model.OfferRequest{RestaurantID: 11, OfferType: "FLAT%", OfferValue: 110, Segments: []string{"p1"}},
			expectErr: model.ErrInvalidOfferValue,
		},
		{
			name:      "Empty segment list",
			req:       &model.OfferRequest{RestaurantID: 13, OfferType: "FLATX", OfferValue: 10, Segments: []string{}},
			expectErr: model.ErrEmptySegments,
		},
		{
			name:      "Missing segment list",
			req:       &model.OfferRequest{RestaurantID: 13, OfferType: "FLATX", OfferValue: 10},
			expectErr: model.ErrEmptySegments,
		},
		{
			name:      "Blank segment label",
			req:       &model.OfferRequest{RestaurantID: 13, OfferType: "FLATX", OfferValue: 10, Segments: []string{"p1", "  "}},
			expectErr: model.ErrEmptySegments,
		},
		{
			name:      "Zero restaurant ID",
			req:       &model.OfferRequest{RestaurantID: 0, OfferType: "FLATX", OfferValue: 10, Segments: []string{"p1"}},
			expectErr: model.ErrInvalidRestaurantID,
		},
		{
			name:      "Negative restaurant ID",
			req:       &model.OfferRequest{RestaurantID: -1, OfferType: "FLATX", OfferValue: 10, Segments: []string{"p1"}},
			expectErr: model.ErrInvalidRestaurantID,
		},
		{
			name:      "Nil request",
			req:       nil,
			expectErr: model.ErrInvalidRestaurantID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := validator.Validate(tt.req)

			if tt.expectErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectErr, err)
				assert.Equal(t, Offer{}, o)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.req.RestaurantID, o.RestaurantID)
			assert.Equal(t, tt.req.OfferType, o.Type.String())
			assert.Equal(t, tt.req.OfferValue, o.Value)
			assert.Equal(t, tt.req.Segments, o.Segments)
			assert.Zero(t, o.Sequence, "sequence is assigned by the store")
		})
	}
}

func TestValidator_Validate_CollapsesDuplicateSegments(t *testing.T) {
	validator := NewValidator(zerolog.Nop())

	o, err := validator.Validate(&model.OfferRequest{
		RestaurantID: 1,
		OfferType:    "FLATX",
		OfferValue:   10,
		Segments:     []string{"p2", "p1", "p2", "p1"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"p2", "p1"}, o.Segments)
}

func TestValidator_Validate_ReportsFirstFailingRule(t *testing.T) {
	validator := NewValidator(zerolog.Nop())

	_, err := validator.Validate(&model.OfferRequest{
		RestaurantID: 1,
		OfferType:    "bogus",
		OfferValue:   -1,
		Segments:     nil,
	})

	assert.Equal(t, model.ErrInvalidOfferType, err)
}
