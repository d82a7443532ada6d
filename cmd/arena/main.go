package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/lixenwraith/arena/audio"
	"github.com/lixenwraith/arena/config"
	"github.com/lixenwraith/arena/core"
	"github.com/lixenwraith/arena/engine"
	"github.com/lixenwraith/arena/input"
	"github.com/lixenwraith/arena/render"
	"github.com/lixenwraith/arena/status"
)

var (
	configFlag  = flag.String("config", "", "Arena description (.toml, .yaml or .yml)")
	debugFlag   = flag.Bool("debug", false, "Write logs to the logs directory")
	profileFlag = flag.String("profile", "", "Profile mode: cpu, mem")
	seedFlag    = flag.Uint64("seed", 0, "Scatter seed, overrides the config (0 = config or random)")
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the game crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "arena: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()
	if *configFlag != "" {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *seedFlag != 0 {
		cfg.Game.Seed = *seedFlag
	}
	if cfg.Game.Seed == 0 {
		cfg.Game.Seed = rand.Uint64()
	}

	// A nil *os.File must not reach newLogger as a non-nil io.Writer
	var logOut io.Writer
	if logFile := setupLogging(*debugFlag, cfg.Logging.Dir); logFile != nil {
		defer logFile.Close()
		logOut = logFile
	}
	logger, err := newLogger(cfg.Logging, logOut)
	if err != nil {
		return err
	}
	defer logger.Sync()

	switch *profileFlag {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Logging.Dir), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(cfg.Logging.Dir), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q", *profileFlag)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	// Normal exit terminal cleanup; the crash path runs the same hook
	defer screen.Fini()
	core.SetResetHook(screen.Fini)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	keyboard := input.NewKeyboard(input.DefaultHold)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// Screen finalized
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			default:
				keyboard.HandleEvent(ev, time.Now())
			}
		}
	})

	reg := status.NewRegistry()
	world := engine.NewWorld(logger, reg)
	rng := rand.New(rand.NewPCG(cfg.Game.Seed, cfg.Game.Seed))
	player := engine.Populate(world, cfg, rng)

	term := render.NewTerminal(screen, cfg.Render.CellWidth, cfg.Render.CellHeight, cfg.Render.HUD, reg)
	loop := engine.NewLoop(world, keyboard, term, engine.NewMonotonicTimeProvider(), cfg.Game.FrameInterval(), logger)
	loop.SetMaxDelta(cfg.Game.MaxDeltaDuration())

	if cfg.Audio.Enabled {
		sm := audio.NewSoundManager(cfg.Audio.Volume, logger)
		if err := sm.Initialize(); err != nil {
			// Non-fatal, game can run without sound
			logger.Warn("audio unavailable, continuing without sound", zap.Error(err))
		} else {
			defer sm.Cleanup()
			loop.AddSink(sm)
		}
	}

	logger.Info("arena started",
		zap.Uint64("seed", cfg.Game.Seed),
		zap.Int("fps", cfg.Game.FPS),
		zap.Stringer("player", player),
		zap.String("config", *configFlag))

	runErr := loop.Run(ctx)

	fields := make([]zap.Field, 0, reg.Count())
	for _, s := range reg.Snapshot() {
		fields = append(fields, zap.Float64(s.Name, s.Value))
	}
	logger.Info("arena stopped", fields...)

	if runErr != nil {
		return fmt.Errorf("game loop: %w", runErr)
	}
	return nil
}
