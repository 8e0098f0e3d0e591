package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"

	"camp-engine/internal/agent"
	"camp-engine/internal/engine"
	"camp-engine/internal/infrastructure/storage"
	"camp-engine/internal/server"
	"camp-engine/internal/version"
	"camp-engine/pkg/dungeon"
	"camp-engine/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Конфигурация: окружение CAMP_*, флаги поверх
	cfg, err := engine.LoadConfig()
	if err != nil {
		logger.Log.Fatalf("config: %+v", err)
	}

	var (
		seed       int64
		addr       string
		mapsDir    string
		noCamp     bool
		autopilot  int
		replayPath string
	)
	flag.Int64Var(&seed, "seed", 0, "Master seed (0 keeps CAMP_SEED or a random one)")
	flag.StringVar(&addr, "addr", cfg.Addr, "HTTP listen address")
	flag.StringVar(&mapsDir, "maps", "", "Directory with *.lvl maps (instead of generated levels)")
	flag.BoolVar(&noCamp, "no-camp", false, "Start right in the generated dungeon")
	flag.IntVar(&autopilot, "autopilot", 0, "Let the bot play N turns")
	flag.StringVar(&replayPath, "replay", "", "Path to "+storage.FileExt+" replay file to simulate")
	flag.Parse()

	if seed != 0 {
		cfg.Seed = seed
	}
	cfg.Addr = addr

	logger.Log.Info(version.String())

	factory := dungeon.NewFactory()
	levels, err := dungeon.Levels(dungeon.LevelOptions{
		MapsDir: mapsDir,
		NoCamp:  noCamp,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Shard:   cfg.ShardID,
	}, factory)
	if err != nil {
		logger.Log.Fatalf("levels: %+v", err)
	}

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		if err := runReplay(cfg, replayPath, levels, factory); err != nil {
			logger.Log.Fatalf("replay: %+v", err)
		}
		return
	}

	logger.Log.WithField("seed", cfg.Seed).Info("starting simulation")

	// 2. Ядро
	sim, err := engine.Start(cfg, levels, factory)
	if err != nil {
		logger.Log.Fatalf("start: %+v", err)
	}

	var replays *storage.ReplayService
	if cfg.ReplayDir != "" {
		if replays, err = storage.NewReplayService(cfg.ReplayDir); err != nil {
			logger.Log.Fatalf("replays: %+v", err)
		}
	}
	svc := engine.NewService(sim, replays)

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if autopilot > 0 {
		bot := agent.NewBot("autopilot", svc, autopilot)
		go func() {
			if err := bot.Run(ctx); err != nil && !eris.Is(err, context.Canceled) {
				logger.Log.WithError(err).Warn("autopilot stopped with error")
			}
		}()
	}

	// 3. Запуск сервера
	if err := server.New(svc, cfg.Addr).Run(ctx); err != nil {
		logger.Log.Errorf("server: %+v", err)
	}

	logger.Log.Info("Shutting down...")
	if _, err := svc.SaveReplay(); err != nil {
		logger.Log.WithError(err).Error("replay was not saved")
	}
	logger.Log.Info("Done.")
}

func runReplay(cfg engine.Config, path string, levels dungeon.LevelSource, factory *dungeon.Factory) error {
	session, err := (&storage.ReplayService{}).Load(path)
	if err != nil {
		return err
	}
	logger.Log.WithField("actions", len(session.Actions)).Info("replaying")

	sim, err := engine.Replay(cfg, session, levels, factory)
	if err != nil {
		return err
	}

	bz, err := storage.Capture(sim.World).Marshal()
	if err != nil {
		return err
	}
	logger.Log.WithField("turn", sim.Turn).WithField("level", sim.Level).Info("replay finished")
	_, err = os.Stdout.Write(append(bz, '\n'))
	return err
}
