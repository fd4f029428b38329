package input

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Deps are the derived-state components the pipeline consults.
type Deps struct {
	Mover   MoveOracle
	Builder BuildOracle
	Holder  Inventory
	Picker  DropSpot
}

// branch is one input category: it filters the shared signal stream,
// throttles what passes and turns accepted signals into at most one
// command each.
type branch struct {
	name     string
	accepts  func(Key) bool
	throttle *Throttle // nil: unthrottled
	handle   func(Signal)
}

// Pipeline turns key-down signals into commands on the Sink. Every branch
// subscribes to the Broadcaster separately, so each sees every signal.
// Branches run independently; no ordering holds across categories.
type Pipeline struct {
	source   *Broadcaster
	sink     Sink
	branches []*branch
	log      *zap.Logger
}

// NewPipeline builds the movement, action, drop and exit branches.
// onExit runs when the exit key is pressed; it bypasses the Sink.
func NewPipeline(source *Broadcaster, keymap Keymap, window time.Duration, deps Deps, sink Sink, onExit func(), log *zap.Logger) *Pipeline {
	p := &Pipeline{source: source, sink: sink, log: log}

	p.branches = []*branch{
		{
			name: "movement",
			accepts: func(k Key) bool {
				_, ok := keymap.Movement[k]
				return ok
			},
			throttle: NewThrottle(window),
			handle: func(sig Signal) {
				p.submit("movement", DecideMove(deps.Mover, keymap.Movement[sig.Key]))
			},
		},
		{
			name:     "action",
			accepts:  func(k Key) bool { return k == keymap.Action },
			throttle: NewThrottle(window),
			handle: func(Signal) {
				if cmd, ok := DecideAction(deps.Builder); ok {
					p.submit("action", cmd)
				}
			},
		},
		{
			name:     "drop",
			accepts:  func(k Key) bool { return k == keymap.Drop },
			throttle: NewThrottle(window),
			handle: func(Signal) {
				if cmd, ok := DecideDrop(deps.Holder, deps.Picker); ok {
					p.submit("drop", cmd)
				}
			},
		},
		{
			name:    "exit",
			accepts: func(k Key) bool { return k == keymap.Exit },
			handle: func(Signal) {
				log.Info("exit key pressed")
				onExit()
			},
		},
	}
	return p
}

// Run subscribes every branch and processes signals until ctx is done or
// the Broadcaster closes. All subscriptions are revoked together on return.
func (p *Pipeline) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	cancels := make([]func(), 0, len(p.branches))
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	for _, br := range p.branches {
		br := br
		signals, cancel := p.source.Subscribe()
		cancels = append(cancels, cancel)
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case sig, ok := <-signals:
					if !ok {
						return nil
					}
					p.dispatch(br, sig)
				}
			}
		})
	}
	p.log.Info("input pipeline running", zap.Int("branches", len(p.branches)))
	return g.Wait()
}

// Feed delivers sig to every branch synchronously, in branch order. It is
// the Run loop without the goroutines.
func (p *Pipeline) Feed(sig Signal) {
	for _, br := range p.branches {
		p.dispatch(br, sig)
	}
}

func (p *Pipeline) dispatch(br *branch, sig Signal) {
	if !br.accepts(sig.Key) {
		return
	}
	if br.throttle != nil && !br.throttle.Allow(sig.At) {
		p.log.Debug("input throttled", zap.String("branch", br.name), zap.String("key", string(sig.Key)))
		return
	}
	br.handle(sig)
}

func (p *Pipeline) submit(branch string, cmd Command) {
	evs, err := cmd.Submit(p.sink)
	if err != nil {
		p.log.Error("command failed",
			zap.String("branch", branch),
			zap.Stringer("command", cmd),
			zap.Error(err),
		)
		return
	}
	p.log.Debug("command applied",
		zap.String("branch", branch),
		zap.Stringer("command", cmd),
		zap.Int("events", len(evs)),
	)
}
