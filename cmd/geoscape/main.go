package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/geoscape/server/internal/config"
	"github.com/geoscape/server/internal/core/event"
	coresys "github.com/geoscape/server/internal/core/system"
	"github.com/geoscape/server/internal/data"
	"github.com/geoscape/server/internal/persist"
	"github.com/geoscape/server/internal/save"
	"github.com/geoscape/server/internal/scripting"
	"github.com/geoscape/server/internal/system"
	"github.com/geoscape/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m             geoscape  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m      strategic layer · mission sites      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("GEOSCAPE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Connect to PostgreSQL and run migrations
	printSection("database")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	printOK("PostgreSQL connected")

	version, err := persist.RunMigrations(ctx, db.Pool)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	printOK(fmt.Sprintf("schema at version %d", version))
	fmt.Println()

	saveRepo := persist.NewSaveRepo(db)
	journalRepo := persist.NewJournalRepo(db)

	// 4. Rules and scripts
	printSection("rules")

	rules, err := data.LoadCatalogue(cfg.Data.RulesDir)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	missions, deployments, ufos := rules.Counts()
	printStat("missions", missions)
	printStat("deployments", deployments)
	printStat("ufos", ufos)

	luaEngine, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("Lua scripts loaded")
	fmt.Println()

	// 5. Restore the campaign
	printSection("campaign")

	ws, err := loadCampaign(ctx, saveRepo, cfg.Save.Slot, rules, log)
	if err != nil {
		return err
	}
	printStat("ufos", ws.CraftCount())
	printStat("mission sites", ws.SiteCount())
	printStat("campaign hours", int(ws.Elapsed()/3600))
	fmt.Println()

	// 6. Create systems and register with runner
	bus := event.NewBus()
	runner := coresys.NewRunner()
	journalSys := system.NewJournalSystem(ws, bus, journalRepo, log)
	persistSys := system.NewPersistenceSystem(ws, saveRepo, log, cfg.Save.Slot, cfg.Save.Keep, cfg.Simulation.AutosaveTicks)

	runner.Register(system.NewEventSystem(bus))
	runner.Register(system.NewBattleSystem(ws, bus, log))
	runner.Register(system.NewDetectionSystem(ws, bus, log))
	runner.Register(system.NewCountdownSystem(ws, bus, log, cfg.Simulation.SecondsPerTick))
	runner.Register(system.NewScheduleSystem(ws, bus, rules, newSeededRand(cfg.Simulation.Seed), log, cfg.Simulation.SpawnEvery))
	runner.Register(system.NewTextureSystem(ws, luaEngine, log))
	runner.Register(journalSys)
	runner.Register(persistSys)
	runner.Register(system.NewCleanupSystem(ws))

	// 7. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("ready")
	printReady(fmt.Sprintf("game loop running (tick: %s, %ds per tick)", cfg.Simulation.TickRate, cfg.Simulation.SecondsPerTick))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Simulation.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			journalSys.Flush()
			if err := persistSys.SaveNow(); err != nil {
				log.Error("final save failed", zap.Error(err))
			}
			log.Info("server stopped", zap.Uint64("ticks", runner.Ticks()))
			return nil
		}
	}
}

// loadCampaign restores the newest save in slot, or starts an empty globe
// when the slot has none.
func loadCampaign(ctx context.Context, repo *persist.SaveRepo, slot string, rules *data.Catalogue, log *zap.Logger) (*world.State, error) {
	row, err := repo.LoadLatest(ctx, slot)
	if errors.Is(err, persist.ErrNoSave) {
		printOK("no save found, starting a new campaign")
		return world.NewState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load save: %w", err)
	}
	ws, report, err := save.DecodeGame(row.Data, rules, log)
	if err != nil {
		return nil, fmt.Errorf("decode save %d: %w", row.ID, err)
	}
	for _, s := range report.Skipped {
		log.Warn("save record dropped", zap.String("record", s.String()))
	}
	printOK(fmt.Sprintf("save %d restored from slot %q", row.ID, slot))
	if !report.Clean() {
		printStat("records dropped", len(report.Skipped))
		printStat("craft links dropped", len(report.Dangling))
	}
	return ws, nil
}

// newSeededRand returns the campaign RNG. Seed 0 seeds from the clock.
func newSeededRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
