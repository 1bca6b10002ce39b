//go:build ignore

// Command generate_sample_offers writes gzipped NDJSON offer seed files to
// data/offers. Run with: go run scripts/generate_sample_offers.go
package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"cart-offer/internal/model"
)

// File 1 holds restaurant 1 offers; file 2 adds restaurant 2 and one invalid
// line the seeder will reject.
func main() {
	dataDir := "data/offers"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	files := map[string][]model.OfferRequest{
		"offers1.gz": {
			{RestaurantID: 1, OfferType: "FLATX", OfferValue: 10, Segments: []string{"p1"}},
			{RestaurantID: 1, OfferType: "FLAT%", OfferValue: 10, Segments: []string{"p1", "p2"}},
		},
		"offers2.gz": {
			{RestaurantID: 2, OfferType: "FLAT%", OfferValue: 15, Segments: []string{"p3"}},
			{RestaurantID: 2, OfferType: "FLATX", OfferValue: 50, Segments: []string{"p1", "p2", "p3"}},
			{RestaurantID: 2, OfferType: "FLAT%", OfferValue: 150, Segments: []string{"p1"}},
		},
	}

	for filename, offers := range files {
		filePath := filepath.Join(dataDir, filename)

		if err := createOfferFile(filePath, offers); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d offers\n", filePath, len(offers))
	}

	fmt.Println("\nSample offer files created successfully!")
	fmt.Println("Seed them with: OFFER_SEED_FILES=data/offers/offers1.gz,data/offers/offers2.gz")
	fmt.Println("offers2.gz line 3 (FLAT% 150) is rejected during seeding.")
}

func createOfferFile(filePath string, offers []model.OfferRequest) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	if _, err := fmt.Fprintln(gzipWriter, "# restaurant offers, one JSON object per line"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	encoder := json.NewEncoder(gzipWriter)
	for _, o := range offers {
		if err := encoder.Encode(o); err != nil {
			return fmt.Errorf("failed to write offer: %w", err)
		}
	}

	return nil
}
