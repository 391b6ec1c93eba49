package catalogimport

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for reading gzipped catalogue files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped catalogue file from the local file system.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]DishRecord, error) {
	l.logger.Info().Str("file", filePath).Msg("loading catalogue file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open catalogue file")
		return nil, fmt.Errorf("failed to open catalogue file %s: %w", filePath, err)
	}
	defer file.Close()

	records, err := decodeRecords(ctx, file, l.logger.With().Str("file", filePath).Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to read catalogue file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("records_loaded", len(records)).
		Msg("catalogue file loaded successfully")

	return records, nil
}

// decodeRecords reads one JSON object per line from a gzip stream. Blank
// lines are ignored and malformed lines are logged and skipped.
func decodeRecords(ctx context.Context, r io.Reader, logger zerolog.Logger) ([]DishRecord, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var records []DishRecord
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				logger.Warn().Msg("catalogue loading cancelled")
				return nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec DishRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			logger.Warn().Err(err).Int("line", lineNo).Msg("skipping malformed catalogue record")
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		logger.Error().Err(err).Msg("error reading catalogue stream")
		return nil, fmt.Errorf("error reading catalogue stream: %w", err)
	}

	return records, nil
}
