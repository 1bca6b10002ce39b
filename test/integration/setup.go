package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"cart-offer/internal/database"
	"cart-offer/internal/handler"
	"cart-offer/internal/offer"
	"cart-offer/internal/repository"
	"cart-offer/internal/router"
	"cart-offer/internal/segment"
	"cart-offer/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestAPIKey is the key every integration server is started with.
const TestAPIKey = "test-api-key"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container with the offers schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.EnsureSchema(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// CleanupDB removes every stored offer.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "DELETE FROM offers"); err != nil {
		t.Logf("failed to clean offers table: %v", err)
	}
}

// StartSegmentService serves the user segment endpoint from segments.
// Unknown users get 404.
func StartSegmentService(t *testing.T, segments map[int64]string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != segment.UserSegmentPath {
			http.NotFound(w, r)
			return
		}

		userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
		if err != nil {
			http.Error(w, "bad user_id", http.StatusBadRequest)
			return
		}

		seg, ok := segments[userID]
		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"segment": seg})
	}))
	t.Cleanup(srv.Close)

	return srv
}

// NewServer wires the API over store with segments resolved through the HTTP
// segment service at segmentURL.
func NewServer(t *testing.T, store offer.Store, segmentURL string) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	resolver, err := segment.NewHTTPResolver(segmentURL, time.Second, logger)
	if err != nil {
		t.Fatalf("failed to create segment resolver: %v", err)
	}

	offerService := service.NewOfferService(store, offer.NewValidator(logger), logger)
	cartService := service.NewCartService(offer.NewEngine(store, logger), resolver, logger)

	return router.New(
		handler.NewOfferHandler(offerService, logger),
		handler.NewCartHandler(cartService, logger),
		TestAPIKey,
		logger,
	)
}

// NewPostgresStore returns the PostgreSQL offer store over testDB.
func NewPostgresStore(testDB *TestDB) offer.Store {
	return repository.NewOfferRepository(testDB.Pool, zerolog.Nop())
}
