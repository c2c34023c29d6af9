package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/vmunix/sortarr/internal/config"
	"github.com/vmunix/sortarr/internal/events"
	"github.com/vmunix/sortarr/internal/imdbweb"
	"github.com/vmunix/sortarr/internal/metadata"
	"github.com/vmunix/sortarr/internal/organizer"
	"github.com/vmunix/sortarr/internal/pipeline"
	"github.com/vmunix/sortarr/internal/report"
	"github.com/vmunix/sortarr/internal/scanner"
	"github.com/vmunix/sortarr/internal/scoring"
	"github.com/vmunix/sortarr/internal/store"
	"github.com/vmunix/sortarr/internal/tmdb"
	"github.com/vmunix/sortarr/pkg/tvmaze"
)

var (
	runSource    string
	runDest      string
	runApply     bool
	runReportDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan the source tree and organize everything it finds",
	Long: `Scan the source tree, resolve each unit against metadata providers,
and move confidently identified media into the library. Runs dry by
default; pass --apply to actually move files.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runSource, "src", "", "Source tree to scan (overrides config)")
	runCmd.Flags().StringVar(&runDest, "dst", "", "Destination base; roots become <dst>/{Movies,TV Shows,Music,Review} (overrides config)")
	runCmd.Flags().BoolVar(&runApply, "apply", false, "Actually move files instead of the default dry run")
	runCmd.Flags().StringVar(&runReportDir, "report", "", "Report output directory (overrides config)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return err
	}
	if runSource != "" {
		cfg.Paths.Source = runSource
	}
	if runDest != "" {
		cfg.Paths.Movies = filepath.Join(runDest, "Movies")
		cfg.Paths.TV = filepath.Join(runDest, "TV Shows")
		cfg.Paths.Music = filepath.Join(runDest, "Music")
		cfg.Paths.Review = filepath.Join(runDest, "Review")
	}
	if runApply {
		cfg.Run.DryRun = false
	}
	if runReportDir != "" {
		cfg.Run.ReportDir = runReportDir
	}

	log := newLogger(cfg)

	// Inaccessible roots are the only fatal startup condition.
	if _, err := os.Stat(cfg.Paths.Source); err != nil {
		return fmt.Errorf("source root: %w", err)
	}
	for _, root := range []string{cfg.Paths.Movies, cfg.Paths.TV, cfg.Paths.Music, cfg.Paths.Review} {
		if err := os.MkdirAll(root, 0755); err != nil {
			return fmt.Errorf("destination root: %w", err)
		}
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	providers, rates, err := buildProviders(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewBus(log.With("component", "bus"))
	collector := report.NewCollector(bus, cfg.Paths.Source, cfg.Run.DryRun)
	ledger := organizer.NewLedger(db)
	router := organizer.NewRouter(
		organizer.Roots{
			Movies: cfg.Paths.Movies,
			TV:     cfg.Paths.TV,
			Music:  cfg.Paths.Music,
			Review: cfg.Paths.Review,
		},
		organizer.Templates{
			Movie:        cfg.Naming.Movie,
			Episode:      cfg.Naming.Episode,
			SeasonFolder: cfg.Naming.SeasonFolder,
		},
		cfg.Paths.Source,
	)

	deps := pipeline.Deps{
		Scanner:  scanner.New(cfg.Paths.Source, cfg.Scanner.GroupThreshold, log.With("component", "scanner")),
		Resolver: metadata.NewResolver(providers, rates, metadata.NewCache(db), log.With("component", "resolver")),
		Scorer: scoring.New(scoring.Config{
			TitleWeight:    cfg.Scoring.TitleWeight,
			YearWeight:     cfg.Scoring.YearWeight,
			KeywordWeight:  cfg.Scoring.KeywordWeight,
			MinConfidence:  cfg.Scoring.MinConfidence,
			YearTolerance:  cfg.Scoring.YearTolerance,
			YearNearCredit: cfg.Scoring.YearNearCredit,
		}),
		Router: router,
		Executor: organizer.NewExecutor(ledger, bus,
			organizer.NewConfirmer(cfg.Run.Confirmation), cfg.Run.DryRun,
			log.With("component", "executor")),
		Ledger: ledger,
		Bus:    bus,
	}

	p := pipeline.New(deps, cfg.Paths.Source, cfg.Run.Workers, log.With("component", "pipeline"))
	runErr := p.Run(ctx)

	bus.Close()
	rep := collector.Report()

	path, err := rep.Write(cfg.Run.ReportDir)
	if err != nil {
		log.Error("report write failed", "error", err)
	} else {
		log.Info("report written", "path", path)
	}

	if len(rep.Entries) > 0 {
		report.RenderDecisions(os.Stdout, rep)
	}
	report.RenderSummary(os.Stdout, rep)
	if cfg.Run.DryRun {
		fmt.Println("dry run: nothing was moved. Re-run with --apply to organize.")
	}

	return runErr
}

// buildProviders instantiates metadata providers in the configured
// priority order, with their per-provider rate budgets.
func buildProviders(cfg *config.Config) ([]metadata.Provider, map[string]rate.Limit, error) {
	var providers []metadata.Provider
	rates := make(map[string]rate.Limit)

	for _, name := range cfg.Providers.Priority {
		switch name {
		case "tmdb":
			if cfg.Providers.TMDB == nil {
				return nil, nil, fmt.Errorf("provider %q listed but not configured", name)
			}
			providers = append(providers, tmdb.NewClient(cfg.Providers.TMDB.APIKey))
			if cfg.Providers.TMDB.RatePerSecond > 0 {
				rates[name] = rate.Limit(cfg.Providers.TMDB.RatePerSecond)
			}
		case "tvmaze":
			providers = append(providers, tvmaze.New())
			if cfg.Providers.TVMaze != nil && cfg.Providers.TVMaze.RatePerSecond > 0 {
				rates[name] = rate.Limit(cfg.Providers.TVMaze.RatePerSecond)
			}
		case "imdb":
			providers = append(providers, imdbweb.New())
			if cfg.Providers.IMDB != nil && cfg.Providers.IMDB.RatePerSecond > 0 {
				rates[name] = rate.Limit(cfg.Providers.IMDB.RatePerSecond)
			}
		default:
			return nil, nil, fmt.Errorf("unknown provider %q", name)
		}
	}
	return providers, rates, nil
}
