package repository

import (
	"context"
	"fmt"
	"time"

	"cart-offer/internal/offer"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// offerRepository implements OfferRepository using PostgreSQL.
type offerRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOfferRepository creates a new PostgreSQL-backed offer repository.
// The offers table must exist; see database.EnsureSchema.
func NewOfferRepository(pool *pgxpool.Pool, logger zerolog.Logger) OfferRepository {
	return &offerRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "offer").Logger(),
	}
}

// Add inserts the offer. The database assigns Sequence.
func (r *offerRepository) Add(ctx context.Context, o offer.Offer) (offer.Offer, error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO offers (id, restaurant_id, offer_type, offer_value, segments, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING sequence
	`

	// Inserts for one restaurant are serialised so sequences commit in
	// order; a reader never sees a later offer before an earlier one.
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, o.RestaurantID); err != nil {
			return fmt.Errorf("failed to lock restaurant %d: %w", o.RestaurantID, err)
		}

		return tx.QueryRow(ctx, query,
			o.ID, o.RestaurantID, o.Type.String(), o.Value, o.Segments, o.CreatedAt,
		).Scan(&o.Sequence)
	})
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("offer_id", o.ID.String()).
			Int64("restaurant_id", o.RestaurantID).
			Msg("failed to insert offer")
		return offer.Offer{}, fmt.Errorf("failed to insert offer: %w", err)
	}

	r.logger.Debug().
		Str("offer_id", o.ID.String()).
		Int64("restaurant_id", o.RestaurantID).
		Int64("sequence", o.Sequence).
		Msg("offer inserted")

	return o, nil
}

// Lookup retrieves the restaurant's offers ordered by sequence.
func (r *offerRepository) Lookup(ctx context.Context, restaurantID int64) ([]offer.Offer, error) {
	query := `
		SELECT sequence, id, restaurant_id, offer_type, offer_value, segments, created_at
		FROM offers
		WHERE restaurant_id = $1
		ORDER BY sequence
	`

	rows, err := r.pool.Query(ctx, query, restaurantID)
	if err != nil {
		r.logger.Error().Err(err).Int64("restaurant_id", restaurantID).Msg("failed to query offers")
		return nil, fmt.Errorf("failed to query offers: %w", err)
	}
	defer rows.Close()

	offers := []offer.Offer{}
	for rows.Next() {
		var (
			o       offer.Offer
			literal string
		)
		if err := rows.Scan(&o.Sequence, &o.ID, &o.RestaurantID, &literal, &o.Value, &o.Segments, &o.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan offer row")
			return nil, fmt.Errorf("failed to scan offer: %w", err)
		}

		offerType, ok := offer.ParseType(literal)
		if !ok {
			return nil, fmt.Errorf("offer %s has unknown type %q", o.ID, literal)
		}
		o.Type = offerType

		offers = append(offers, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating offer rows")
		return nil, fmt.Errorf("error iterating offers: %w", err)
	}

	return offers, nil
}

// Count returns the number of stored offers.
func (r *offerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM offers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count offers: %w", err)
	}
	return count, nil
}

// DeleteAll removes every offer.
func (r *offerRepository) DeleteAll(ctx context.Context) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM offers`)
	if err != nil {
		return fmt.Errorf("failed to delete offers: %w", err)
	}

	r.logger.Info().Int64("deleted", tag.RowsAffected()).Msg("offers deleted")
	return nil
}
