// Command playground is an interactive terminal demo of the motion engine.
// A car is steered with the arrow keys and a bomb falls and bounces on the
// floor, both on one live frame clock.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/cxd309/motion-engine/internal/clock"
	"github.com/cxd309/motion-engine/internal/config"
	"github.com/cxd309/motion-engine/internal/logging"
	"github.com/cxd309/motion-engine/internal/mobile"
)

var (
	configFlag = flag.String("config", "", "Path to a YAML config file")
	logFlag    = flag.String("log", "", "Write logs to this file")
	muteFlag   = flag.Bool("mute", false, "Disable sound")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "playground: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.Load(*configFlag); err != nil {
			return err
		}
	}
	if *logFlag != "" {
		cfg.Log.File = *logFlag
	}

	logger, closeLog, err := openLog(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	carPreset, err := cfg.Preset(config.PresetCar)
	if err != nil {
		return err
	}
	bombPreset, err := cfg.Preset(config.PresetBomb)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	var snd *audio
	if cfg.Playground.Sound && !*muteFlag {
		if snd, err = newAudio(); err != nil {
			// Non-fatal, the playground runs without sound
			logger.Warn("audio initialization failed", "error", err)
		}
		defer snd.close()
	}

	interval := cfg.Clock.FrameInterval
	if interval == 0 {
		interval = clock.DisplayFrameInterval
	}
	frameOpts := []clock.FrameOption{clock.WithMaxTicks(cfg.Clock.MaxTicks)}
	if cfg.Clock.Stepped {
		frameOpts = append(frameOpts,
			clock.WithTimeProvider(clock.NewSteppedTimeProvider(time.Now(), interval)))
	}
	frame := clock.NewFrame(interval, frameOpts...)

	car := mobile.New(frame, mobile.WithID(config.PresetCar),
		mobile.WithLimits(carPreset.Limits), mobile.WithLogger(logger))
	bomb := mobile.New(frame, mobile.WithID(config.PresetBomb),
		mobile.WithLimits(bombPreset.Limits), mobile.WithLogger(logger))
	if err := car.SetVelocityX(carPreset.InitialVelocity.X); err != nil {
		return err
	}
	if err := car.SetVelocityY(carPreset.InitialVelocity.Y); err != nil {
		return err
	}

	game := NewGame(screen, car, bomb, cfg, snd, logger)
	if err := game.bounce.drop(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	frame.Start(ctx)
	defer frame.Stop()

	logger.Info("playground started", "interval", interval, "width", game.width, "height", game.height)
	game.run()
	logger.Info("playground stopped", "ticks", frame.Ticks())
	return nil
}

// openLog builds the logger. Without a file the playground stays silent so
// log lines do not corrupt the screen.
func openLog(c config.LogConfig) (logging.Logger, func(), error) {
	if c.File == "" {
		return logging.Nop, func() {}, nil
	}
	level, err := c.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return logging.NewSlog(slog.New(h)).With("component", "playground"), func() { f.Close() }, nil
}
