// Терминальный клиент: та же симуляция, что и у сервера, но в одном
// процессе и с отрисовкой через tcell.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rotisserie/eris"

	"camp-engine/internal/agent"
	"camp-engine/internal/domain"
	"camp-engine/internal/engine"
	"camp-engine/internal/infrastructure/storage"
	"camp-engine/internal/render"
	"camp-engine/pkg/api"
	"camp-engine/pkg/dungeon"
	"camp-engine/pkg/logger"
)

const session = "viewer"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "viewer: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := engine.LoadConfig()
	if err != nil {
		return err
	}

	var (
		seed      int64
		mapsDir   string
		noCamp    bool
		autopilot int
		pace      time.Duration
		logPath   string
	)
	flag.Int64Var(&seed, "seed", 0, "Master seed (0 keeps CAMP_SEED or a random one)")
	flag.StringVar(&mapsDir, "maps", "", "Directory with *.lvl maps")
	flag.BoolVar(&noCamp, "no-camp", false, "Start right in the generated dungeon")
	flag.IntVar(&autopilot, "autopilot", 0, "Watch the bot play N turns")
	flag.DurationVar(&pace, "pace", 150*time.Millisecond, "Delay between autopilot turns")
	flag.StringVar(&logPath, "log", "viewer.log", "Log file (the terminal is taken by the map)")
	flag.Parse()

	if seed != 0 {
		cfg.Seed = seed
	}

	// Лог в файл: stdout занят экраном
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return eris.Wrap(err, "open log file")
	}
	defer logFile.Close()
	logger.Configure(logger.Options{Level: "info", Format: "text"}, logFile)

	factory := dungeon.NewFactory()
	levels, err := dungeon.Levels(dungeon.LevelOptions{
		MapsDir: mapsDir,
		NoCamp:  noCamp,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Shard:   cfg.ShardID,
	}, factory)
	if err != nil {
		return err
	}

	sim, err := engine.Start(cfg, levels, factory)
	if err != nil {
		return err
	}
	var replays *storage.ReplayService
	if cfg.ReplayDir != "" {
		if replays, err = storage.NewReplayService(cfg.ReplayDir); err != nil {
			return err
		}
	}
	svc := engine.NewService(sim, replays)

	screen, err := tcell.NewScreen()
	if err != nil {
		return eris.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return eris.Wrap(err, "init screen")
	}
	defer screen.Fini()

	r := attachRenderer(svc, screen)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if autopilot > 0 {
		bot := agent.NewBot("autopilot", svc, autopilot)
		bot.Pace = pace
		go func() {
			if err := bot.Run(ctx); err != nil && !eris.Is(err, context.Canceled) {
				logger.Log.WithError(err).Warn("autopilot stopped with error")
			}
		}()
	}

	loop(screen, svc, r, autopilot > 0)
	if _, err := svc.SaveReplay(); err != nil {
		logger.Log.WithError(err).Error("replay was not saved")
	}
	return nil
}

// attachRenderer подписывает рендерер на события симуляции. Кадры рисуются
// под замком сервиса, внутри хода.
func attachRenderer(svc *engine.GameService, screen tcell.Screen) *render.Renderer {
	r := render.New(screen, nil)
	svc.Do(func(sim *engine.Simulation) {
		r.World = func() *domain.World { return sim.World }
		r.Status = func() string {
			status := render.StatusLine(sim.Level, sim.Turn, sim.World.Primary())
			if sim.Over {
				status += "  GAME OVER (q to quit)"
			}
			return status
		}
		sim.Events.RegisterListener(r)
		r.Draw()
	})
	return r
}

func loop(screen tcell.Screen, svc *engine.GameService, r *render.Renderer, watching bool) {
	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			screen.Sync()
			svc.Do(func(*engine.Simulation) { r.Draw() })
		case *tcell.EventKey:
			if render.IsQuit(ev) {
				return
			}
			if watching {
				continue
			}
			cmd, ok := render.KeyCommand(ev)
			if !ok {
				continue
			}
			_, err := svc.ProcessCommand(session, api.ClientCommand{
				Action:  cmd.Type.String(),
				Payload: cmd.Payload,
			})
			if err != nil && !eris.Is(err, engine.ErrGameOver) {
				logger.Log.WithError(err).WithField("action", cmd.Type.String()).Debug("command rejected")
			}
		}
	}
}
