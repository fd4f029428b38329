package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crusoe/game/internal/component"
	"github.com/crusoe/game/internal/config"
	"github.com/crusoe/game/internal/core/event"
	coresys "github.com/crusoe/game/internal/core/system"
	"github.com/crusoe/game/internal/data"
	"github.com/crusoe/game/internal/game"
	"github.com/crusoe/game/internal/input"
	gonet "github.com/crusoe/game/internal/net"
	"github.com/crusoe/game/internal/scripting"
	"github.com/crusoe/game/internal/system"
	"github.com/crusoe/game/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("CRUSOE_CONFIG"); p != "" {
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

	out := console{w: os.Stdout, color: cfg.Logging.Format != "json"}
	out.banner(cfg.World.Player)

	// 3. Dispatch bus and components. Registration order is delivery order:
	// the movement and build caches see every event before the sinks do.
	g := game.New(world.NewPlayer(cfg.World.Player), log.Named("game"))
	mover := component.NewMover()
	builder := component.NewBuilder()
	journal := component.NewJournal(log.Named("journal"))
	picker := component.NewPicker(g, log.Named("picker"))
	holder := component.NewHolder()

	g.Register("mover", mover.Process)
	g.Register("builder", builder.Process)
	g.Register("journal", journal.Process)
	g.Register("picker", picker.Process)
	g.Register("holder", holder.Process)

	// 4. Bootstrap the board through the bus
	out.section("world")
	seed := cfg.World.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine := scripting.NewEngine(g, scripting.Params{
		Width:    cfg.World.Width,
		Height:   cfg.World.Height,
		MinWalls: cfg.World.MinWalls,
		MaxWalls: cfg.World.MaxWalls,
	}, seed, log.Named("script"))
	err = engine.RunFile(cfg.Scripting.Bootstrap)
	engine.Close()
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	snap := g.Snapshot()
	out.stat("width", snap.Dimensions.Width)
	out.stat("height", snap.Dimensions.Height)
	out.stat("walls", len(snap.Walls))
	out.stat("items", len(snap.Items))
	out.blank()

	// 5. Input
	out.section("input")
	table, err := data.LoadKeymapTable(cfg.Input.Keymap)
	if err != nil {
		return fmt.Errorf("load keymap: %w", err)
	}
	keymap, err := table.Keymap()
	if err != nil {
		return fmt.Errorf("keymap: %w", err)
	}
	out.stat("bound keys", table.Count())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, exit := context.WithCancel(ctx)
	defer exit()

	keys := input.NewBroadcaster(cfg.Input.QueueSize, log.Named("input"))
	pipeline := input.NewPipeline(keys, keymap, cfg.Input.Throttle, input.Deps{
		Mover:   mover,
		Builder: builder,
		Holder:  holder,
		Picker:  picker,
	}, g, exit, log.Named("input"))
	out.ok("throttle %s per category", cfg.Input.Throttle)
	out.blank()

	// 6. Transport and tick systems
	eg, ctx := errgroup.WithContext(ctx)
	runner := coresys.NewRunner()
	store := gonet.NewSessionStore()
	runner.Register(system.NewSnapshotSystem(g, store, log.Named("render")))

	if cfg.Network.Enabled {
		out.section("network")
		server, err := gonet.NewServer(cfg.Network, log.Named("net"))
		if err != nil {
			return fmt.Errorf("listen %s: %w", cfg.Network.BindAddress, err)
		}
		runner.Register(system.NewInputSystem(server, store, keys, cfg.Network.MaxSignalsPerTick, log.Named("net")))
		out.ok("websocket on ws://%s/ws", server.Addr())
		out.blank()

		eg.Go(server.Serve)
		eg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	eg.Go(func() error { return runner.Run(ctx, cfg.Render.TickRate) })
	eg.Go(func() error { return pipeline.Run(ctx) })
	eg.Go(func() error {
		<-ctx.Done()
		keys.Close()
		return nil
	})

	out.ok("render tick %s", cfg.Render.TickRate)
	log.Info("game running", zap.Int64("seed", seed))

	if err := eg.Wait(); err != nil {
		return err
	}
	log.Info("shutdown complete",
		zap.Int("moves", journal.Count(event.KindPlayerMoved)),
		zap.Int("walls_built", journal.Count(event.KindWallBuilt)),
	)
	return nil
}

// newLogger builds the process logger: JSON with ISO timestamps for
// machines, or a compact colored console for a terminal.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewDevelopmentConfig()
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
		zc.DisableCaller = true
		zc.DisableStacktrace = true
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
