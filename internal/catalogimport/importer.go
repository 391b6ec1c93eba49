package catalogimport

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"parrot-ordering/internal/model"

	"github.com/rs/zerolog"
)

// Result reports the outcome of an import run.
type Result struct {
	Read       int `json:"read"`
	Created    int `json:"created"`
	Duplicates int `json:"duplicates"`
	Invalid    int `json:"invalid"`
	// Distinct counts unique dishes across all files, valid or not.
	Distinct   int `json:"distinct"`
}

// Importer bulk-creates catalogue dishes from import files.
type Importer struct {
	loader  Loader
	catalog DishCreator
	logger  zerolog.Logger
}

// NewImporter creates a new catalogue importer.
func NewImporter(loader Loader, catalog DishCreator, logger zerolog.Logger) *Importer {
	return &Importer{
		loader:  loader,
		catalog: catalog,
		logger:  logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Import loads every file concurrently, then creates the dishes in file
// order. Records rejected by catalogue validation and repeated names are
// skipped; any other failure aborts the run.
func (i *Importer) Import(ctx context.Context, filePaths ...string) (*Result, error) {
	type loadResult struct {
		index   int
		records []DishRecord
		err     error
	}

	resultChan := make(chan loadResult, len(filePaths))
	var wg sync.WaitGroup

	for idx, filePath := range filePaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			records, err := i.loader.Load(ctx, path)
			resultChan <- loadResult{index: index, records: records, err: err}
		}(idx, filePath)
	}

	wg.Wait()
	close(resultChan)

	results := make([]loadResult, len(filePaths))
	for result := range resultChan {
		results[result.index] = result
	}

	total := 0
	for idx, result := range results {
		if result.err != nil {
			i.logger.Error().
				Err(result.err).
				Str("file", filePaths[idx]).
				Msg("failed to load catalogue file")
			return nil, fmt.Errorf("failed to load catalogue file %s: %w", filePaths[idx], result.err)
		}
		total += len(result.records)
	}

	res := &Result{}
	seen := newNameSet(total)
	for _, result := range results {
		for _, rec := range result.records {
			res.Read++

			if !seen.Add(rec.Category, rec.Name) {
				res.Duplicates++
				continue
			}

			dish, err := i.catalog.Create(ctx, rec.Request())
			if err != nil {
				if errors.Is(err, model.ErrValidation) {
					i.logger.Warn().Err(err).Str("name", rec.Name).Msg("skipping invalid catalogue record")
					res.Invalid++
					continue
				}
				return res, fmt.Errorf("failed to create dish %q: %w", rec.Name, err)
			}

			i.logger.Debug().Int64("dish_id", dish.ID).Str("name", dish.Name).Msg("dish imported")
			res.Created++
		}
	}

	res.Distinct = seen.Size()

	i.logger.Info().
		Int("read", res.Read).
		Int("distinct", res.Distinct).
		Int("created", res.Created).
		Int("duplicates", res.Duplicates).
		Int("invalid", res.Invalid).
		Msg("catalogue import finished")

	return res, nil
}
