package offer

import (
	"context"
	"errors"
	"fmt"

	"cart-offer/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SeedFunc registers one offer request, typically through the offer service
// so the usual validation applies.
type SeedFunc func(ctx context.Context, req *model.OfferRequest) error

// SeedResult summarises a seeding run.
type SeedResult struct {
	Files    int
	Accepted int
	Rejected int
}

// Seed loads all files concurrently, then registers their offers in file order
// and line order so declaration order is preserved. Requests rejected with a
// domain error are logged and skipped; any other error aborts the run.
func Seed(ctx context.Context, loader Loader, paths []string, register SeedFunc, logger zerolog.Logger) (SeedResult, error) {
	logger = logger.With().Str("component", "offer-seeder").Logger()

	var result SeedResult
	if len(paths) == 0 {
		return result, nil
	}

	batches := make([][]model.OfferRequest, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			requests, err := loader.Load(gctx, path)
			if err != nil {
				return fmt.Errorf("failed to load offer file %s: %w", path, err)
			}
			batches[i] = requests
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	for i, requests := range batches {
		for j := range requests {
			err := register(ctx, &requests[j])

			var domainErr *model.DomainError
			switch {
			case err == nil:
				result.Accepted++
			case errors.As(err, &domainErr):
				result.Rejected++
				logger.Warn().
					Str("file", paths[i]).
					Int("index", j).
					Str("code", domainErr.Code).
					Msg("skipping invalid seed offer")
			default:
				return result, fmt.Errorf("failed to register seed offer %d from %s: %w", j, paths[i], err)
			}
		}
		result.Files++
	}

	logger.Info().
		Int("files", result.Files).
		Int("accepted", result.Accepted).
		Int("rejected", result.Rejected).
		Msg("offer seeding completed")

	return result, nil
}
