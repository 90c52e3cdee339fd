// alchmd — celestial calculation daemon for recipe timing.
//
// Runs the calculation chain (positions, planetary hours, quantities,
// collective balance, transmutation window search) on a schedule, persists
// readings, and serves the HTTP API. One-shot subcommands expose the same
// chain for inspection from the terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alchm-dev/alchm-core/internal/alchemy"
	"github.com/alchm-dev/alchm-core/internal/api"
	"github.com/alchm-dev/alchm-core/internal/astro"
	"github.com/alchm-dev/alchm-core/internal/collective"
	"github.com/alchm-dev/alchm-core/internal/config"
	"github.com/alchm-dev/alchm-core/internal/hours"
	"github.com/alchm-dev/alchm-core/internal/logger"
	"github.com/alchm-dev/alchm-core/internal/lunar"
	"github.com/alchm-dev/alchm-core/internal/models"
	"github.com/alchm-dev/alchm-core/internal/monitor"
	"github.com/alchm-dev/alchm-core/internal/oracle"
	"github.com/alchm-dev/alchm-core/internal/planetweight"
	"github.com/alchm-dev/alchm-core/internal/season"
	"github.com/alchm-dev/alchm-core/internal/storage"
	"github.com/alchm-dev/alchm-core/internal/telegram"
	"github.com/alchm-dev/alchm-core/internal/thermo"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "alchmd",
	Short: "Celestial calculation engine for alchemical recipe timing",
	Long: `alchmd computes planetary positions, planetary hour tables, and the
four alchemical quantities, aggregates them into a collective balance, and
searches upcoming hours for transmutation windows.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "configs/config.yaml", "path to configuration file")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(positionsCmd)
	rootCmd.AddCommand(hoursCmd)
	rootCmd.AddCommand(windowsCmd)
	rootCmd.AddCommand(lunarCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("alchmd %s (%s)\n", version, commit)
	},
}

// --- One-shot commands ---

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Print current planetary positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		calc := astro.NewDefault(cfg.Engine.EphemerisPath)
		now := time.Now().UTC()
		set, err := calc.Positions(now.Year(), int(now.Month()), now.Day(), now.Hour(), now.Minute(), cfg.ZodiacSystem())
		if err != nil {
			return err
		}
		return printJSON(set)
	},
}

var hoursCmd = &cobra.Command{
	Use:   "hours",
	Short: "Print today's planetary hour table for the configured observer",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := hours.New().TableFor(time.Now().UTC(), cfg.Observer.Latitude, cfg.Observer.Longitude)
		if err != nil {
			return err
		}
		return printJSON(table)
	},
}

var windowsCmd = &cobra.Command{
	Use:   "windows [imbalance]",
	Short: "Search upcoming hours for transmutation windows",
	Long: `Search the configured horizon for planetary hours favorable for
correcting the given imbalance (MatterStagnation or SpiritVolatility).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		if days == 0 {
			days = cfg.Engine.HorizonDays
		}
		searcher := oracle.NewSearcher(hours.New())
		windows, err := searcher.Search(cmd.Context(), models.ImbalanceCategory(args[0]),
			cfg.Observer.Latitude, cfg.Observer.Longitude, days)
		if err != nil {
			return err
		}
		return printJSON(windows)
	},
}

func init() {
	windowsCmd.Flags().Int("days", 0, "forecast horizon in days (default: configured horizon)")
}

var lunarCmd = &cobra.Command{
	Use:   "lunar",
	Short: "Print the current lunar phase and upcoming mansion windows",
	RunE: func(cmd *cobra.Command, args []string) error {
		calc := astro.NewDefault(cfg.Engine.EphemerisPath)
		windows, err := lunar.NewOracle(calc.Provider()).OptimalWindows(cfg.Engine.HorizonDays)
		if err != nil {
			return err
		}
		return printJSON(map[string]interface{}{
			"phase":   lunar.PhaseAt(time.Now()),
			"windows": windows,
		})
	},
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

// --- Serve Command (daemon) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the calculation daemon and HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon()
	},
}

// engine bundles everything one calculation cycle touches.
type engine struct {
	calc      *astro.Calculator
	scheduler *hours.Scheduler
	searcher  *oracle.Searcher
	store     *storage.Storage
	tg        *telegram.Client
	drift     *monitor.Drift
	natal     models.PositionSet
	weight    alchemy.WeightFunc
}

func runDaemon() error {
	logger.Info("Starting alchmd %s (zodiac: %s, horizon: %dd, poll: %v)",
		version, cfg.Engine.ZodiacSystem, cfg.Engine.HorizonDays, cfg.Engine.PollInterval)

	store, err := storage.New(cfg.Storage.MaxReadings, cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close storage: %v", err)
		}
	}()

	calc := astro.NewDefault(cfg.Engine.EphemerisPath)
	scheduler := hours.New()

	eng := &engine{
		calc:      calc,
		scheduler: scheduler,
		searcher:  oracle.NewSearcher(scheduler),
		store:     store,
		drift:     monitor.New(monitor.DefaultConfig()),
	}
	if cfg.Engine.MassWeightedBonus {
		eng.weight = planetweight.PlanetWeight
	}

	// The reference chart's positions anchor transit detection for the whole
	// run; the chart does not move.
	natal, err := eng.natalPositions()
	if err != nil {
		return fmt.Errorf("failed to compute reference chart positions: %w", err)
	}
	eng.natal = natal

	if cfg.Telegram.Enabled {
		eng.tg, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, 3, 2*time.Second)
		if err != nil {
			return fmt.Errorf("failed to initialize Telegram client: %w", err)
		}
		logger.Info("Telegram client initialized successfully")
	} else {
		logger.Debug("Telegram notifications disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, cleaning up...")
		cancel()
	}()

	if eng.tg != nil {
		eng.tg.ListenForCommands(ctx)
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Server.Enabled {
		srv := api.NewServer(cfg, calc, scheduler, eng.searcher, lunar.NewOracle(calc.Provider()), store)
		g.Go(func() error {
			logger.Info("HTTP API listening on %s", cfg.Server.Addr)
			return srv.ListenAndServe(ctx)
		})
	}

	g.Go(func() error {
		eng.loop(ctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Service stopped")
	return nil
}

// loop runs the calculation cycle immediately, then on every tick until the
// context is cancelled. The first failure after a healthy stretch is
// reported to Telegram, as is the recovery.
func (e *engine) loop(ctx context.Context) {
	ticker := time.NewTicker(cfg.Engine.PollInterval)
	defer ticker.Stop()

	consecutiveFailures := 0

	handleCycleResult := func(err error) {
		if err != nil {
			consecutiveFailures++
			logger.Error("Calculation cycle failed: %v", err)
			if consecutiveFailures == 1 && e.tg != nil {
				if sendErr := e.tg.SendError(err); sendErr != nil {
					logger.Warn("Failed to send error notification to Telegram: %v", sendErr)
				}
			}
		} else {
			if consecutiveFailures > 0 && e.tg != nil {
				if sendErr := e.tg.SendRecovery(consecutiveFailures); sendErr != nil {
					logger.Warn("Failed to send recovery notification to Telegram: %v", sendErr)
				}
			}
			consecutiveFailures = 0
		}
	}

	logger.Debug("Running initial calculation cycle")
	handleCycleResult(e.runCycle(ctx))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Debug("Starting scheduled calculation cycle")
			handleCycleResult(e.runCycle(ctx))
		}
	}
}

// runCycle walks the full chain once: positions, hour ruler, potency,
// quantities, persistence, balance analysis, and the window search when the
// group is out of balance.
func (e *engine) runCycle(ctx context.Context) error {
	startTime := time.Now()
	now := startTime.UTC()
	logger.Info("Starting calculation cycle")

	set, err := e.calc.Positions(now.Year(), int(now.Month()), now.Day(), now.Hour(), now.Minute(), cfg.ZodiacSystem())
	if err != nil {
		return fmt.Errorf("failed to compute positions: %w", err)
	}
	profile := astro.ProfileFromPositions(set)
	logger.Debug("Positions computed via %s, dominant element %s", set.Source, profile.Elements.Dominant())

	thermoProfile := thermo.Translate(profile.Elements)
	e.drift.Observe(thermoProfile.Energy)

	ruler, err := e.scheduler.RulerOfInstant(now, cfg.Observer.Latitude, cfg.Observer.Longitude)
	if err != nil {
		return fmt.Errorf("failed to resolve hour ruler: %w", err)
	}
	seasonElement := season.ElementOf(now)

	potency := alchemy.Score(alchemy.PotencyInput{
		Elements:        profile.Elements,
		DominantTransit: alchemy.DominantTransit(e.natal.Positions, set.Positions),
		SeasonElement:   seasonElement,
		HourRuler:       ruler,
	}, e.weight)
	logger.Info("Hour of %s, season element %s, potency %.3f (steam: %v)",
		ruler, seasonElement, potency.Total, potency.Steam)

	quantities := alchemy.Quantities(profile.Elements, potency.Kinetic, potency.Thermal, ruler)

	reading := models.TransitReading{
		ID:            uuid.New().String(),
		Quantities:    quantities,
		HourRuler:     ruler,
		SeasonElement: seasonElement,
		Source:        set.Source,
		RecordedAt:    now,
	}
	if err := e.store.AddReading(&reading); err != nil {
		return fmt.Errorf("failed to persist reading: %w", err)
	}

	if err := e.store.PurgeExpiredWindows(now); err != nil {
		logger.Warn("Failed to purge expired windows: %v", err)
	}

	imbalance, err := e.analyzeBalance(now)
	if err != nil {
		return err
	}
	if imbalance == models.Balanced {
		logger.Info("Group is balanced, no window search this cycle")
	} else if err := e.refreshWindows(ctx, imbalance); err != nil {
		return err
	}

	logger.Info("Calculation cycle completed in %v", time.Since(startTime))
	return nil
}

// analyzeBalance classifies the past week of readings.
func (e *engine) analyzeBalance(now time.Time) (models.ImbalanceCategory, error) {
	readings, err := e.store.RecentReadings(now.Add(-7 * 24 * time.Hour))
	if err != nil {
		return "", fmt.Errorf("failed to load recent readings: %w", err)
	}
	quantities := make([]models.AlchemicalQuantities, len(readings))
	for i, r := range readings {
		quantities[i] = r.Quantities
	}
	report, err := collective.AnalyzeBalance(quantities)
	if err != nil {
		return "", fmt.Errorf("failed to analyze balance: %w", err)
	}
	imbalance := collective.ImbalanceFromReport(report)
	logger.Info("Balance over %d readings: %s", len(readings), imbalance)
	return imbalance, nil
}

// refreshWindows searches the horizon, swaps the stored forecast, and
// notifies the top windows above the potency floor.
func (e *engine) refreshWindows(ctx context.Context, imbalance models.ImbalanceCategory) error {
	windows, err := e.searcher.Search(ctx, imbalance,
		cfg.Observer.Latitude, cfg.Observer.Longitude, cfg.Engine.HorizonDays)
	if err != nil {
		return fmt.Errorf("window search failed: %w", err)
	}
	logger.Info("Found %d %s windows over %d days", len(windows), imbalance, cfg.Engine.HorizonDays)

	if err := e.store.ReplaceWindows(imbalance, windows); err != nil {
		return fmt.Errorf("failed to store windows: %w", err)
	}

	if e.tg == nil {
		return nil
	}
	top := oracle.TopByPotency(windows, cfg.Engine.TopWindows)
	notify := top[:0:len(top)]
	for _, w := range top {
		if w.Potency >= cfg.Engine.NotifyPotencyFloor {
			notify = append(notify, w)
		}
	}
	if len(notify) == 0 {
		logger.Debug("No windows above potency floor %.2f", cfg.Engine.NotifyPotencyFloor)
		return nil
	}
	if err := e.tg.SendWindows(imbalance, notify); err != nil {
		logger.Error("Failed to send Telegram notification: %v", err)
	} else {
		logger.Info("Sent Telegram notification with top %d windows", len(notify))
	}
	return nil
}

// natalPositions computes the reference chart's position set once.
func (e *engine) natalPositions() (models.PositionSet, error) {
	chart := cfg.Observer.ReferenceChart
	birthUTC, err := chart.UTC()
	if err != nil {
		return models.PositionSet{}, err
	}
	return e.calc.Positions(
		birthUTC.Year(), int(birthUTC.Month()), birthUTC.Day(),
		birthUTC.Hour(), birthUTC.Minute(), cfg.ZodiacSystem())
}
