// partsync CLI - supplier-catalog reconciliation for the repair platform.
//
// Usage:
//   partsync reconcile --catalog catalog.yaml --feed listings.json
//   partsync serve --port 8080
//   partsync report
//   partsync review --id <mapping-id> --reviewer ops@shop --approve
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"partsync/api"
	"partsync/catalogstore"
	"partsync/config"
	"partsync/ledger"
	"partsync/ledger/clickhousestore"
	reconcileerrors "partsync/pkg/errors"
	"partsync/pkg/platform"
	"partsync/reconcile/pipeline"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	platform.LoadDotEnv()

	app := &cli.App{
		Name:    "partsync",
		Usage:   "Supplier-catalog reconciliation engine - resolve, merge, and price scraped part listings",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"PARTSYNC_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to YAML config (thresholds, markup bands, lookup tables)",
				EnvVars: []string{"PARTSYNC_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "ledger",
				Value:   "memory",
				Usage:   "Ledger backend (memory, clickhouse)",
				EnvVars: []string{"PARTSYNC_LEDGER"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-host",
				Value:   "localhost",
				Usage:   "ClickHouse host",
				EnvVars: []string{"CLICKHOUSE_HOST"},
			},
			&cli.IntFlag{
				Name:    "clickhouse-port",
				Value:   9000,
				Usage:   "ClickHouse native port",
				EnvVars: []string{"CLICKHOUSE_PORT"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-database",
				Value:   "partsync",
				Usage:   "ClickHouse database",
				EnvVars: []string{"CLICKHOUSE_DATABASE"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-user",
				Value:   "default",
				Usage:   "ClickHouse user",
				EnvVars: []string{"CLICKHOUSE_USER"},
			},
			&cli.StringFlag{
				Name:    "clickhouse-password",
				Value:   "",
				Usage:   "ClickHouse password",
				EnvVars: []string{"CLICKHOUSE_PASSWORD"},
			},
			&cli.StringFlag{
				Name:    "postgres-dsn",
				Usage:   "Postgres DSN of the admin database (catalog + staged listings)",
				EnvVars: []string{"PARTSYNC_POSTGRES_DSN"},
			},
		},

		Commands: []*cli.Command{
			reconcileCommand(),
			serveCommand(),
			reportCommand(),
			reviewCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// RECONCILE COMMAND
// =============================================================================

func reconcileCommand() *cli.Command {
	return &cli.Command{
		Name:  "reconcile",
		Usage: "Resolve a supplier feed against the catalog and emit the priced master catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "catalog",
				Aliases: []string{"c"},
				Usage:   "Path to catalog snapshot (YAML or JSON); omit to load from Postgres",
			},
			&cli.StringFlag{
				Name:    "feed",
				Aliases: []string{"f"},
				Usage:   "Path to scraped listings feed (JSON); omit to load from Postgres",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   "-",
				Usage:   "Output path for the master catalog JSON (- for stdout)",
			},
			&cli.IntFlag{
				Name:  "resume-chunk",
				Usage: "Resume a crashed run from this chunk index",
			},
		},
		Action: runReconcile,
	}
}

func runReconcile(c *cli.Context) error {
	ctx := context.Background()
	log := platform.InitLogger(c.String("log-level"))

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	catalogLoader, feedLoader, closeStores, err := buildLoaders(c)
	if err != nil {
		return err
	}
	defer closeStores()

	// Catalog load failure is fatal before any matching starts.
	models, err := catalogLoader.LoadCatalog(ctx)
	if err != nil {
		return reconcileerrors.NewCatalogLoadError(err)
	}
	log.Info().Int("models", len(models)).Msg("catalog snapshot loaded")

	listings, err := feedLoader.LoadListings(ctx)
	if err != nil {
		return reconcileerrors.NewFeedParseError(err)
	}
	log.Info().Int("listings", len(listings)).Msg("supplier feed loaded")

	repo, closeLedger, err := buildLedger(c)
	if err != nil {
		return err
	}
	defer closeLedger()

	p := pipeline.New(models, repo, pipeline.Options{
		AutoAcceptThreshold: cfg.AutoAcceptThreshold,
		FuzzyThreshold:      cfg.FuzzyThreshold,
		PartialThreshold:    cfg.PartialThreshold,
		ChunkSize:           cfg.ChunkSize,
		Workers:             cfg.Workers,
		MarkupBands:         cfg.MarkupBands,
		TierMultipliers:     cfg.TierMultipliers,
		Abbreviations:       cfg.Abbreviations,
		Synonyms:            cfg.Synonyms,
		ResumeFromChunk:     c.Int("resume-chunk"),
	}, log)

	result, err := p.Run(ctx, listings)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	return writeJSON(c.String("output"), result)
}

// =============================================================================
// SERVE COMMAND
// =============================================================================

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the mapping review and quality report API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "HTTP port",
				EnvVars: []string{"PARTSYNC_PORT"},
			},
		},
		Action: func(c *cli.Context) error {
			log := platform.InitLogger(c.String("log-level"))

			repo, closeLedger, err := buildLedger(c)
			if err != nil {
				return err
			}
			defer closeLedger()

			cfg := api.DefaultConfig()
			cfg.Port = c.Int("port")
			return api.NewServer(repo, cfg, log).StartWithGracefulShutdown()
		},
	}
}

// =============================================================================
// REPORT COMMAND
// =============================================================================

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Print the ledger quality report",
		Flags: []cli.Flag{
			&cli.Float64Flag{
				Name:  "low-confidence",
				Value: 0.7,
				Usage: "Low-confidence cutoff for the review queue",
			},
		},
		Action: func(c *cli.Context) error {
			platform.InitLogger(c.String("log-level"))

			repo, closeLedger, err := buildLedger(c)
			if err != nil {
				return err
			}
			defer closeLedger()

			report, err := repo.QualityReport(context.Background(), c.Float64("low-confidence"))
			if err != nil {
				return fmt.Errorf("quality report failed: %w", err)
			}
			return writeJSON("-", report)
		},
	}
}

// =============================================================================
// REVIEW COMMAND
// =============================================================================

func reviewCommand() *cli.Command {
	return &cli.Command{
		Name:  "review",
		Usage: "Record a human verdict on a mapping decision",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Mapping record id",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "reviewer",
				Usage:    "Reviewer identity",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "approve",
				Usage: "Approve the mapping (omit to reject)",
			},
		},
		Action: func(c *cli.Context) error {
			platform.InitLogger(c.String("log-level"))

			mappingID, err := uuid.Parse(c.String("id"))
			if err != nil {
				return fmt.Errorf("invalid mapping id: %w", err)
			}

			repo, closeLedger, err := buildLedger(c)
			if err != nil {
				return err
			}
			defer closeLedger()

			record, err := repo.ReviewMapping(context.Background(), mappingID, c.String("reviewer"), c.Bool("approve"))
			if err != nil {
				return fmt.Errorf("review failed: %w", err)
			}
			return writeJSON("-", record)
		},
	}
}

// =============================================================================
// WIRING HELPERS
// =============================================================================

func buildLedger(c *cli.Context) (ledger.Repository, func(), error) {
	switch c.String("ledger") {
	case "clickhouse":
		store, err := clickhousestore.NewStore(&clickhousestore.Config{
			Host:     c.String("clickhouse-host"),
			Port:     c.Int("clickhouse-port"),
			Database: c.String("clickhouse-database"),
			Username: c.String("clickhouse-user"),
			Password: c.String("clickhouse-password"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case "memory":
		return ledger.NewMemoryRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend: %s", c.String("ledger"))
	}
}

func buildLoaders(c *cli.Context) (catalogstore.CatalogLoader, catalogstore.FeedLoader, func(), error) {
	catalogPath := c.String("catalog")
	feedPath := c.String("feed")
	noop := func() {}

	if catalogPath != "" && feedPath != "" {
		return catalogstore.FileCatalogLoader{Path: catalogPath},
			catalogstore.FileFeedLoader{Path: feedPath}, noop, nil
	}

	dsn := c.String("postgres-dsn")
	if dsn == "" {
		return nil, nil, noop, fmt.Errorf("either --catalog/--feed files or --postgres-dsn is required")
	}
	store, err := catalogstore.NewPostgresStore(dsn)
	if err != nil {
		return nil, nil, noop, err
	}
	closeStore := func() { _ = store.Close() }

	var catalogLoader catalogstore.CatalogLoader = store
	var feedLoader catalogstore.FeedLoader = store
	if catalogPath != "" {
		catalogLoader = catalogstore.FileCatalogLoader{Path: catalogPath}
	}
	if feedPath != "" {
		feedLoader = catalogstore.FileFeedLoader{Path: feedPath}
	}
	return catalogLoader, feedLoader, closeStore, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	data = append(data, '\n')

	if path == "-" || path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
