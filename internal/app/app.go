package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/pitchstats/matchform/internal/config"
	"github.com/pitchstats/matchform/internal/domain/stats"
	"github.com/pitchstats/matchform/internal/infrastructure/dataset"
	"github.com/pitchstats/matchform/internal/infrastructure/feed"
	"github.com/pitchstats/matchform/internal/infrastructure/repository/memory"
	"github.com/pitchstats/matchform/internal/infrastructure/repository/postgres"
	"github.com/pitchstats/matchform/internal/platform/logging"
	"github.com/pitchstats/matchform/internal/usecase"
)

// Run wires the batch builder and executes one full pass: load the feed,
// run the pipeline, write the dataset.
func Run(ctx context.Context, cfg config.Config, logger *logging.Logger) error {
	loader, err := feed.NewLoader(cfg.FeedDir, cfg.FeedWorkers, logger)
	if err != nil {
		return fmt.Errorf("build feed loader: %w", err)
	}

	entries, table, err := loader.Lookups()
	if err != nil {
		return fmt.Errorf("load identity lookups: %w", err)
	}
	resolver := memory.NewResolver(entries, table)

	var records stats.Repository
	if cfg.DBEnabled {
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		records = postgres.NewRecordRepository(db)
		logger.Info("record sink enabled", "db", dbNameFromURL(cfg.DBURL))
	}

	accumulator := usecase.NewAccumulator(resolver, usecase.NewRoundLedger(), usecase.NewRoundLedger(), cfg.MatchInitWorkers)
	features := usecase.NewFeatureBuilder(resolver, cfg.WindowSize)
	fallback := usecase.NewFallbackEstimator(resolver)
	pipeline := usecase.NewPipeline(loader, accumulator, features, fallback, records, logger, cfg.ExactResults)

	ds, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("run pipeline: %w", err)
	}

	if err := dataset.NewWriter(cfg.DatasetPath).Write(ds); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	logger.InfoContext(ctx, "dataset written",
		"path", cfg.DatasetPath, "rows", len(ds.Rows), "columns", len(ds.Columns))

	return nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	return db, nil
}
