package router

import (
	"net/http"

	"cart-offer/internal/handler"
	"cart-offer/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
// An empty apiKey leaves the API unauthenticated.
func New(
	offerHandler *handler.OfferHandler,
	cartHandler *handler.CartHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", handler.Health)

	// Method checks stay in the handlers so wrong methods get a JSON 405.
	mux.HandleFunc("/api/v1/offer", offerHandler.Create)
	mux.HandleFunc("/api/v1/cart/apply_offer", cartHandler.ApplyOffer)

	return middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.CORS,
		middleware.APIKeyAuth(apiKey, logger),
	)
}
