//go:build ignore

// Command check_db verifies database connectivity and reports the offers table.
// Run with: go run scripts/check_db.go
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"cart-offer/internal/config"

	"github.com/jackc/pgx/v5"
)

func main() {
	os.Setenv("OFFER_STORE", config.StorePostgres)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	if err := conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	var exists bool
	err = conn.QueryRow(ctx, "SELECT to_regclass('public.offers') IS NOT NULL").Scan(&exists)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to check offers table: %v\n", err)
		os.Exit(1)
	}
	if !exists {
		fmt.Println("offers table not found; it is created when the API starts with OFFER_STORE=postgres")
		return
	}

	rows, err := conn.Query(ctx, `
		SELECT restaurant_id, COUNT(*)
		FROM offers
		GROUP BY restaurant_id
		ORDER BY restaurant_id
	`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to count offers: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	var total int64
	for rows.Next() {
		var restaurantID, count int64
		if err := rows.Scan(&restaurantID, &count); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to scan row: %v\n", err)
			os.Exit(1)
		}
		total += count
		fmt.Printf("  restaurant %d: %d offers\n", restaurantID, count)
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read offers: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("offers table holds %d offers\n", total)
}
