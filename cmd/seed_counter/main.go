// seed_counter imports the value of a legacy invoice_counter.txt into the
// counter store configured for the API (STORAGE_DRIVER, COUNTER_FILE,
// DATABASE_URL...). It never moves the counter backwards.
//
// Usage: go run ./cmd/seed_counter [path/invoice_counter.txt]
// Defaults to invoice_counter.txt in the current directory.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/jhoicas/invoice-pdf/internal/application/billing"
	"github.com/jhoicas/invoice-pdf/internal/domain/repository"
	"github.com/jhoicas/invoice-pdf/internal/infrastructure/postgres"
	"github.com/jhoicas/invoice-pdf/internal/infrastructure/storage"
	"github.com/jhoicas/invoice-pdf/pkg/config"
	"github.com/jhoicas/invoice-pdf/pkg/logger"
)

func main() {
	legacyPath := "invoice_counter.txt"
	if len(os.Args) > 1 {
		legacyPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
	ctx := context.Background()

	osFs := afero.NewOsFs()
	if _, err := osFs.Stat(legacyPath); err != nil {
		log.Fatal().Err(err).Str("file", legacyPath).Msg("legacy counter file")
	}
	legacy, err := storage.NewFileSequenceStore(osFs, legacyPath).Read(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("file", legacyPath).Msg("read legacy counter")
	}

	var target repository.SequenceStore
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("connect to PostgreSQL")
		}
		defer pool.Close()
		target = postgres.NewSequenceRepository(pool, cfg.Storage.SequenceName)
	default:
		if samePath(legacyPath, cfg.Storage.CounterFile) {
			log.Info().Int64("counter", legacy).Msg("legacy file is the configured counter, nothing to do")
			return
		}
		target = storage.NewFileSequenceStore(osFs, cfg.Storage.CounterFile)
	}

	if err := seed(ctx, target, legacy); err != nil {
		log.Fatal().Err(err).Msg("seed counter")
	}
	log.Info().
		Int64("counter", legacy).
		Str("next_invoice_number", billing.FormatInvoiceNumber(legacy+1)).
		Msg("counter seeded")
}

// seed writes value into target unless target is already ahead of it.
func seed(ctx context.Context, target repository.SequenceStore, value int64) error {
	current, err := target.Read(ctx)
	if err != nil {
		return err
	}
	if current > value {
		return fmt.Errorf("target counter is at %d, refusing to move it back to %d", current, value)
	}
	if current == value {
		return nil
	}
	return target.Write(ctx, value)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
