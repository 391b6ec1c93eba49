package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"parrot-ordering/internal/catalogimport"
	"parrot-ordering/internal/config"
	"parrot-ordering/internal/database"
	"parrot-ordering/internal/repository"
	"parrot-ordering/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s FILE.jsonl.gz [FILE.jsonl.gz ...]\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Imports dishes from gzipped JSON-lines files. With S3_ENABLED, files are read")
		fmt.Fprintln(flag.CommandLine.Output(), "from S3_BUCKET under S3_PREFIX first and from the local path on failure.")
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return fmt.Errorf("at least one catalogue file is required")
	}

	cfg, err := config.LoadForImport()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	// Initialize catalogue loader with S3 and local fallback
	fileLoader := catalogimport.NewFileLoader(logger)
	var s3Loader catalogimport.Loader
	if cfg.S3.Enabled {
		s3Loader, err = catalogimport.NewS3Loader(ctx, cfg.S3.Bucket, cfg.S3.Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 loader, falling back to local file system only")
			s3Loader = nil
		}
	}
	loader := catalogimport.NewFallbackLoader(s3Loader, fileLoader, cfg.S3.Prefix, cfg.S3.Enabled, logger)

	catalog := service.NewCatalogService(repository.NewDishRepository(pool, logger), logger)
	importer := catalogimport.NewImporter(loader, catalog, logger)

	res, err := importer.Import(ctx, flag.Args()...)
	if err != nil {
		return err
	}

	fmt.Printf("read=%d distinct=%d created=%d duplicates=%d invalid=%d\n", res.Read, res.Distinct, res.Created, res.Duplicates, res.Invalid)
	return nil
}
