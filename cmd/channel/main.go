package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/vanago/channel/internal/anomaly"
	"github.com/vanago/channel/internal/config"
	coresys "github.com/vanago/channel/internal/core/system"
	"github.com/vanago/channel/internal/data"
	"github.com/vanago/channel/internal/handler"
	gonet "github.com/vanago/channel/internal/net"
	"github.com/vanago/channel/internal/net/packet"
	"github.com/vanago/channel/internal/persist"
	"github.com/vanago/channel/internal/scripting"
	"github.com/vanago/channel/internal/system"
	"github.com/vanago/channel/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Environment and config
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfgPath := "config/channel.toml"
	if p := os.Getenv("CHANNEL_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := packet.SetCharset(cfg.Data.ClientCharset); err != nil {
		return fmt.Errorf("client charset: %w", err)
	}

	// 2. Logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.Info("starting channel",
		zap.String("world", cfg.Server.Name),
		zap.Int("world_id", cfg.Server.WorldID),
		zap.Int("channel_id", cfg.Server.ChannelID),
	)

	// 3. PostgreSQL and migrations
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	if _, err := persist.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	charRepo := persist.NewCharacterRepo(db)
	anomalyRepo := persist.NewAnomalyRepo(db)

	// 4. Content tables and map instances
	tables, err := data.Load(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}
	ws := world.NewState()
	ws.LoadMaps(tables.Maps)
	log.Info("content loaded",
		zap.Int("items", tables.Items.Count()),
		zap.Int("quests", tables.Quests.Count()),
		zap.Int("reactors", tables.Reactors.Count()),
		zap.Int("maps", ws.MapCount()),
	)

	// 5. Game systems and scripts
	anomalies := anomaly.NewRecorder(log, cfg.Persist.AnomalyQueueSize)
	quests := system.NewQuestSystem(ws, tables.Items, tables.Npcs, tables.Quests, anomalies, log)
	reactors := system.NewReactorSystem(ws, tables.Reactors, anomalies, log)
	loot := system.NewLootSystem(ws, tables.Items, quests, anomalies, log)

	engine, err := scripting.NewEngine(cfg.Data.ScriptsDir, ws, tables.Mobs, tables.Items, log)
	if err != nil {
		return fmt.Errorf("scripts: %w", err)
	}
	engine.SetGranter(quests)
	quests.SetDialogue(engine)
	reactors.SetScripts(engine)

	// 6. Packet handlers
	deps := &handler.Deps{
		Config:     cfg,
		Log:        log,
		World:      ws,
		Anomalies:  anomalies,
		Characters: charRepo,
		Quests:     quests,
		Reactors:   reactors,
		Loot:       loot,
	}
	pktReg := packet.NewRegistry(log)
	handler.RegisterAll(pktReg, deps)

	// 7. Network
	sessOpts := gonet.SessionOptions{
		InQueueSize:      cfg.Network.InQueueSize,
		OutQueueSize:     cfg.Network.OutQueueSize,
		PacketsPerSecond: cfg.Network.PacketsPerSecond,
		MaxFrameSize:     cfg.Network.MaxFrameSize,
		ReadTimeout:      cfg.Network.IdleTimeout,
		WriteTimeout:     cfg.Network.WriteTimeout,
	}
	netServer, err := gonet.NewServer(cfg.Network.BindAddress, int(cfg.World.MaxPlayerLoad), sessOpts, log)
	if err != nil {
		return fmt.Errorf("network: %w", err)
	}
	go netServer.AcceptLoop()

	var worldLink *system.WorldLinkSystem
	if cfg.Server.WorldLink != "" {
		conn, err := net.DialTimeout("tcp", cfg.Server.WorldLink, 10*time.Second)
		if err != nil {
			return fmt.Errorf("world link %s: %w", cfg.Server.WorldLink, err)
		}
		// Trusted peer: no rate limit or idle timeout.
		linkOpts := sessOpts
		linkOpts.PacketsPerSecond = 0
		linkOpts.MaxFrameSize = 0
		linkOpts.ReadTimeout = 0
		link := gonet.NewSession(conn, 0, linkOpts, log.Named("world_link"))
		link.Start()
		defer link.Close()

		linkReg := packet.NewRegistry(log)
		handler.RegisterWorldLink(linkReg, deps)
		worldLink = system.NewWorldLinkSystem(link, linkReg, cfg.Network.MaxPacketsPerTick, log)
		log.Info("world link connected", zap.String("addr", cfg.Server.WorldLink))
	}

	// 8. Systems, in phase order
	store := gonet.NewSessionStore()
	persistence := system.NewPersistenceSystem(ws, charRepo, anomalies, anomalyRepo, log,
		cfg.Persist.AutoSaveTicks, cfg.Database.WriteTimeout)

	runner := coresys.NewRunner(cfg.Network.TickRate, log)
	runner.Register(system.NewInputSystem(netServer, pktReg, store, cfg.Network.MaxPacketsPerTick,
		ws, charRepo, cfg.Database.WriteTimeout, log))
	if worldLink != nil {
		runner.Register(worldLink)
	}
	runner.Register(system.NewMapTickSystem(ws))
	runner.Register(system.NewOutputSystem(store))
	runner.Register(persistence)

	// 9. Game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Network.TickRate)
	defer ticker.Stop()

	log.Info("channel ready",
		zap.Stringer("addr", netServer.Addr()),
		zap.Duration("tick", cfg.Network.TickRate),
	)

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Network.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			netServer.Shutdown()
			persistence.SaveAllPlayers()
			log.Info("channel stopped")
			return nil
		}
	}
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
