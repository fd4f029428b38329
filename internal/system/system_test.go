package system

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/crusoe/game/internal/config"
	"github.com/crusoe/game/internal/core/grid"
	coresys "github.com/crusoe/game/internal/core/system"
	"github.com/crusoe/game/internal/game"
	"github.com/crusoe/game/internal/input"
	"github.com/crusoe/game/internal/net"
	"github.com/crusoe/game/internal/world"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type harness struct {
	server *net.Server
	game   *game.Game
	bus    *input.Broadcaster
	runner *coresys.Runner
	conn   *websocket.Conn
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default().Network
	cfg.BindAddress = "127.0.0.1:0"
	server, err := net.NewServer(cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	go server.Serve()
	t.Cleanup(func() { server.Shutdown(context.Background()) })

	g := game.New(world.NewPlayer("crusoe"), zap.NewNop())
	for _, req := range []world.Request{
		world.Resize(grid.Dimensions{Width: 4, Height: 4}),
		world.SpawnPlayerAt(grid.Coordinates{X: 1, Y: 1}),
	} {
		if _, err := g.UpdateWorld(req); err != nil {
			t.Fatal(err)
		}
	}

	store := net.NewSessionStore()
	bus := input.NewBroadcaster(16, zap.NewNop())
	runner := coresys.NewRunner()
	runner.Register(NewSnapshotSystem(g, store, zap.NewNop()))
	runner.Register(NewInputSystem(server, store, bus, cfg.MaxSignalsPerTick, zap.NewNop()))

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws", server.Addr()), nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })

	return &harness{server: server, game: g, bus: bus, runner: runner, conn: conn}
}

// readFrame ticks the runner until the client receives a snapshot frame.
func (h *harness) readFrame(t *testing.T) game.Snapshot {
	t.Helper()
	frames := make(chan []byte, 1)
	go func() {
		h.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
		_, data, err := h.conn.ReadMessage()
		if err == nil {
			frames <- data
		}
		close(frames)
	}()

	deadline := time.After(3 * time.Second)
	for {
		h.runner.Tick(time.Millisecond)
		select {
		case data, ok := <-frames:
			if !ok {
				t.Fatal("connection failed before a frame arrived")
			}
			var f struct {
				Type  string        `json:"type"`
				Frame game.Snapshot `json:"frame"`
			}
			if err := json.Unmarshal(data, &f); err != nil {
				t.Fatal(err)
			}
			if f.Type != "snapshot" {
				t.Fatalf("type = %q", f.Type)
			}
			return f.Frame
		case <-deadline:
			t.Fatal("no frame")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestSnapshotsFollowVersions(t *testing.T) {
	h := newHarness(t)

	first := h.readFrame(t)
	if first.Player == nil || first.Player.At != (grid.Coordinates{X: 1, Y: 1}) {
		t.Fatalf("first frame = %+v", first)
	}
	if first.Dimensions != (grid.Dimensions{Width: 4, Height: 4}) {
		t.Errorf("dimensions = %+v", first.Dimensions)
	}

	if _, err := h.game.UpdateWorld(world.Move(grid.North)); err != nil {
		t.Fatal(err)
	}
	second := h.readFrame(t)
	if second.Version <= first.Version {
		t.Errorf("version %d after %d", second.Version, first.Version)
	}
	if second.Player.At != (grid.Coordinates{X: 1, Y: 0}) {
		t.Errorf("player at %+v", second.Player.At)
	}
}

func TestKeysReachTheInputStream(t *testing.T) {
	h := newHarness(t)
	signals, cancel := h.bus.Subscribe()
	defer cancel()

	// The first frame proves the session has been accepted.
	h.readFrame(t)

	if err := h.conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"key","key":"d"}`)); err != nil {
		t.Fatal(err)
	}
	deadline := time.After(3 * time.Second)
	for {
		h.runner.Tick(time.Millisecond)
		select {
		case sig := <-signals:
			if sig.Key != "D" {
				t.Errorf("key = %q", sig.Key)
			}
			return
		case <-deadline:
			t.Fatal("signal never published")
		case <-time.After(time.Millisecond):
		}
	}
}

func TestNoSessionsSkipsSnapshot(t *testing.T) {
	store := net.NewSessionStore()
	src := &countingSource{}
	s := NewSnapshotSystem(src, store, zap.NewNop())

	s.Update(0)
	if src.calls != 0 {
		t.Error("no sessions: the snapshot should not even be read")
	}
}

type countingSource struct{ calls int }

func (c *countingSource) Snapshot() game.Snapshot {
	c.calls++
	return game.Snapshot{}
}
