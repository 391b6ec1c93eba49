package catalogimport

import (
	"compress/gzip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestCatalogFile creates a gzipped catalogue file with one line per entry.
func createTestCatalogFile(t *testing.T, filename string, lines []string) string {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, filename)

	file, err := os.Create(filePath)
	require.NoError(t, err)
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, line := range lines {
		_, err := gzipWriter.Write([]byte(line + "\n"))
		require.NoError(t, err)
	}

	return filePath
}

func TestFileLoader_Load_Success(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCatalogFile(t, "dishes.jsonl.gz", []string{
		`{"name":"Laksa","category":"Noodles","price":"8.50","description":"Spicy coconut soup"}`,
		`{"name":"Nasi Lemak","category":"Rice","price":6.2}`,
	})

	records, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Laksa", records[0].Name)
	assert.True(t, records[0].Price.Equal(decimal.RequireFromString("8.50")))
	assert.Equal(t, "Spicy coconut soup", records[0].Description)
	assert.Equal(t, "Rice", records[1].Category)
	assert.True(t, records[1].Price.Equal(decimal.RequireFromString("6.2")))
}

func TestFileLoader_Load_SkipsBlankAndMalformedLines(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCatalogFile(t, "mixed.jsonl.gz", []string{
		`{"name":"Laksa","category":"Noodles","price":"8.50"}`,
		``,
		`   `,
		`{"name":`,
		`not json`,
		`{"name":"Roti","category":"Bread","price":"2.00"}`,
	})

	records, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Laksa", records[0].Name)
	assert.Equal(t, "Roti", records[1].Name)
}

func TestFileLoader_Load_EmptyFile(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := createTestCatalogFile(t, "empty.jsonl.gz", nil)

	records, err := loader.Load(context.Background(), filePath)

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileLoader_Load_FileNotFound(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	_, err := loader.Load(context.Background(), "/nonexistent/dishes.jsonl.gz")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open catalogue file")
}

func TestFileLoader_Load_NotGzipped(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	filePath := filepath.Join(t.TempDir(), "plain.jsonl")
	require.NoError(t, os.WriteFile(filePath, []byte(`{"name":"Laksa"}`+"\n"), 0o644))

	_, err := loader.Load(context.Background(), filePath)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestFileLoader_Load_ContextCancelled(t *testing.T) {
	loader := NewFileLoader(zerolog.Nop())

	lines := make([]string, 20_000)
	for i := range lines {
		lines[i] = `{"name":"Dish","category":"Misc","price":"1.00"}`
	}
	filePath := createTestCatalogFile(t, "large.jsonl.gz", lines)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loader.Load(ctx, filePath)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDishRecord_Request(t *testing.T) {
	rec := DishRecord{Name: "  Laksa ", Category: " Noodles", Price: decimal.RequireFromString("8.50"), ImageURL: "laksa.png"}

	req := rec.Request()

	assert.Equal(t, "Laksa", req.Name)
	assert.Equal(t, "Noodles", req.Category)
	assert.True(t, req.Price.Equal(rec.Price))
	assert.Equal(t, "laksa.png", req.ImageURL)
}
