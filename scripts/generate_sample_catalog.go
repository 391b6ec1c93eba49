package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"parrot-ordering/internal/catalogimport"

	"github.com/shopspring/decimal"
)

// generateSampleCatalog creates a sample catalogue import file for local runs:
//
//	go run scripts/generate_sample_catalog.go
//	go run ./cmd/catalog-import data/catalog/dishes.jsonl.gz
//
// The file contains one repeated dish and one record without a name, so an
// import reports a duplicate and an invalid record.
func main() {
	dataDir := "data/catalog"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	dishes := []catalogimport.DishRecord{
		{Name: "Laksa", Category: "Noodles", Price: decimal.RequireFromString("8.50"), Description: "Coconut curry noodle soup"},
		{Name: "Mee Goreng", Category: "Noodles", Price: decimal.RequireFromString("7.00")},
		{Name: "Nasi Lemak", Category: "Rice", Price: decimal.RequireFromString("6.20"), Description: "Coconut rice with sambal"},
		{Name: "Chicken Rice", Category: "Rice", Price: decimal.RequireFromString("6.80")},
		{Name: "Roti Canai", Category: "Bread", Price: decimal.RequireFromString("2.00")},
		{Name: "Teh Tarik", Category: "Drinks", Price: decimal.RequireFromString("1.50")},
		{Name: "laksa", Category: "noodles", Price: decimal.RequireFromString("9.00")},
		{Name: "", Category: "Drinks", Price: decimal.RequireFromString("1.00")},
	}

	filePath := filepath.Join(dataDir, "dishes.jsonl.gz")
	if err := createCatalogFile(filePath, dishes); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d records\n", filePath, len(dishes))
	fmt.Println("\nExpected import result: read=8 distinct=7 created=6 duplicates=1 invalid=1")
}

func createCatalogFile(filePath string, dishes []catalogimport.DishRecord) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, dish := range dishes {
		if err := encoder.Encode(dish); err != nil {
			return fmt.Errorf("failed to write dish: %w", err)
		}
	}

	return nil
}
