package component

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/crusoe/game/internal/core/event"
	"github.com/crusoe/game/internal/core/grid"
	"github.com/crusoe/game/internal/core/item"
	"github.com/crusoe/game/internal/game"
	"github.com/crusoe/game/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func at(x, y int) grid.Coordinates { return grid.Coordinates{X: x, Y: y} }

type rig struct {
	game    *game.Game
	mover   *Mover
	builder *Builder
	holder  *Holder
	picker  *Picker
	journal *Journal
	logs    *observer.ObservedLogs
}

// newRig wires every component onto a fresh bus in production order and
// spawns the player on a width x height board.
func newRig(t *testing.T, width, height int, player grid.Coordinates) *rig {
	t.Helper()
	g := game.New(world.NewPlayer("crusoe"), zap.NewNop())
	core, logs := observer.New(zap.WarnLevel)
	r := &rig{
		game:    g,
		mover:   NewMover(),
		builder: NewBuilder(),
		holder:  NewHolder(),
		picker:  NewPicker(g, zap.New(core)),
		journal: NewJournal(zap.NewNop()),
		logs:    logs,
	}
	g.Register("mover", r.mover.Process)
	g.Register("builder", r.builder.Process)
	g.Register("picker", r.picker.Process)
	g.Register("journal", r.journal.Process)
	g.Register("holder", r.holder.Process)

	r.world(t, world.Resize(grid.Dimensions{Width: width, Height: height}))
	r.world(t, world.SpawnPlayerAt(player))
	return r
}

func (r *rig) world(t *testing.T, req world.Request) []event.Event {
	t.Helper()
	evs, err := r.game.UpdateWorld(req)
	if err != nil {
		t.Fatalf("update world: %v", err)
	}
	return evs
}

func (r *rig) player(t *testing.T, req world.PlayerRequest) []event.Event {
	t.Helper()
	evs, err := r.game.UpdatePlayer(req)
	if err != nil {
		t.Fatalf("update player: %v", err)
	}
	return evs
}

func TestMoverFacingTracksWorld(t *testing.T) {
	r := newRig(t, 8, 8, at(4, 4))
	r.world(t, world.BuildWallAt(at(4, 2)))
	r.world(t, world.BuildWallAt(at(6, 4)))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		d := grid.Directions[rng.Intn(len(grid.Directions))]
		if rng.Intn(2) == 0 {
			r.world(t, world.Move(d))
		} else {
			r.world(t, world.Turn(d))
		}

		w := r.game.World()
		if got, want := r.mover.Facing(), w.Facing(); got != want {
			t.Fatalf("step %d: mover facing %s, world facing %s", i, got, want)
		}
		wantAt, _ := w.Player()
		if got, _ := r.mover.Position(); got != wantAt {
			t.Fatalf("step %d: mover at %s, world at %s", i, got, wantAt)
		}
		for _, d := range grid.Directions {
			_, evs := w.Move(d)
			if r.mover.IsLegalMove(d) != (len(evs) > 0) {
				t.Fatalf("step %d: IsLegalMove(%s) disagrees with World", i, d)
			}
		}
	}
}

func TestMoverBeforeSpawn(t *testing.T) {
	m := NewMover()
	m.Process(event.WorldResized{Dimensions: grid.Dimensions{Width: 3, Height: 3}})
	if m.IsLegalMove(grid.South) || m.IsFacing(grid.North) {
		t.Error("no player yet: nothing is legal")
	}
}

func TestMoverTracksWalls(t *testing.T) {
	r := newRig(t, 3, 3, at(1, 1))
	if !r.mover.IsLegalMove(grid.East) {
		t.Fatal("east should be open")
	}
	r.world(t, world.BuildWallAt(at(2, 1)))
	if r.mover.IsLegalMove(grid.East) {
		t.Error("east is walled")
	}
	r.world(t, world.DestroyWallAt(at(2, 1)))
	if !r.mover.IsLegalMove(grid.East) {
		t.Error("wall is gone")
	}
}

func TestBuilderBuildAndDestroyAreExclusive(t *testing.T) {
	r := newRig(t, 4, 4, at(1, 1))
	r.world(t, world.SpawnItemAt(item.Pickaxe, at(3, 3)))

	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 400; i++ {
		switch rng.Intn(4) {
		case 0:
			r.world(t, world.Move(grid.Directions[rng.Intn(4)]))
		case 1:
			r.world(t, world.Turn(grid.Directions[rng.Intn(4)]))
		case 2:
			if r.builder.CanBuildWherePlayerLooking() {
				r.world(t, world.BuildWallAt(r.builder.PlayerTarget()))
			}
		case 3:
			if r.builder.CanDestroyWherePlayerLooking() {
				r.world(t, world.DestroyWallAt(r.builder.PlayerTarget()))
			}
		}

		canBuild := r.builder.CanBuildWherePlayerLooking()
		canDestroy := r.builder.CanDestroyWherePlayerLooking()
		if canBuild && canDestroy {
			t.Fatalf("step %d: both build and destroy allowed", i)
		}

		w := r.game.World()
		target := r.builder.PlayerTarget()
		pos, _ := w.Player()
		if want := pos.Step(w.Facing()); target != want {
			t.Fatalf("step %d: target %s, want %s", i, target, want)
		}
		_, built := w.BuildWallAt(target)
		if canBuild != (len(built) > 0) {
			t.Fatalf("step %d: CanBuild=%v disagrees with World at %s", i, canBuild, target)
		}
		_, destroyed := w.DestroyWallAt(target)
		if canDestroy != (len(destroyed) > 0) {
			t.Fatalf("step %d: CanDestroy=%v disagrees with World at %s", i, canDestroy, target)
		}
	}
}

func TestBuilderRefusesItemCell(t *testing.T) {
	r := newRig(t, 3, 3, at(1, 1))
	r.world(t, world.SpawnItemAt(item.Pickaxe, at(1, 0)))
	if r.builder.CanBuildWherePlayerLooking() {
		t.Error("cannot build on an item")
	}
	if r.builder.CanDestroyWherePlayerLooking() {
		t.Error("nothing to destroy")
	}
}

func TestPickerPicksUpOnStep(t *testing.T) {
	r := newRig(t, 3, 3, at(1, 2))
	r.world(t, world.SpawnItemAt(item.Pickaxe, at(1, 1)))
	if r.holder.HasItems() {
		t.Fatal("nothing held yet")
	}

	evs := r.world(t, world.Move(grid.North))
	want := []event.Event{
		event.PlayerMoved{From: at(1, 2), To: at(1, 1)},
		event.ItemPickedUp{Item: item.Pickaxe, From: at(1, 1)},
	}
	if len(evs) != len(want) || evs[0] != want[0] || evs[1] != want[1] {
		t.Fatalf("events = %v, want %v", evs, want)
	}
	if !r.holder.Has(item.Pickaxe) {
		t.Error("holder should carry the pickaxe")
	}
	if _, ok := r.game.World().ItemAt(at(1, 1)); ok {
		t.Error("pickaxe should have left the board")
	}
	if !r.picker.CanDropHere() {
		t.Error("the cell is free again")
	}
}

func TestPickerPlacesDroppedItem(t *testing.T) {
	r := newRig(t, 3, 3, at(0, 0))
	r.world(t, world.SpawnItemAt(item.Pickaxe, at(1, 0)))
	r.world(t, world.Move(grid.East))

	evs := r.player(t, world.DropItem(item.Pickaxe))
	if len(evs) != 2 || evs[1] != (event.ItemSpawned{Item: item.Pickaxe, At: at(1, 0)}) {
		t.Fatalf("events = %v", evs)
	}
	if r.holder.HasItems() {
		t.Error("dropped item must leave the inventory")
	}
	if r.picker.CanDropHere() {
		t.Error("the cell now holds the pickaxe")
	}
	if it, ok := r.game.World().ItemAt(at(1, 0)); !ok || it != item.Pickaxe {
		t.Error("pickaxe should lie under the player")
	}

	// Leaving and coming back picks it up again.
	r.world(t, world.Move(grid.East))
	r.world(t, world.Move(grid.West))
	if !r.holder.Has(item.Pickaxe) {
		t.Error("pickaxe should be held again")
	}
}

func TestPickerKeepsEveryCopy(t *testing.T) {
	r := newRig(t, 5, 1, at(0, 0))
	r.world(t, world.SpawnItemAt(item.Pickaxe, at(1, 0)))
	r.world(t, world.SpawnItemAt(item.Pickaxe, at(2, 0)))

	r.world(t, world.Move(grid.East))
	r.world(t, world.Move(grid.East))
	if n := len(r.game.World().Items()); n != 0 {
		t.Fatalf("board items = %d, want both picked up", n)
	}
	if r.holder.Count(item.Pickaxe) != 2 {
		t.Fatalf("held = %v, want two pickaxes", r.holder.Items())
	}

	r.world(t, world.Move(grid.East))
	r.player(t, world.DropItem(item.Pickaxe))
	r.world(t, world.Move(grid.East))
	r.player(t, world.DropItem(item.Pickaxe))

	items := r.game.World().Items()
	if len(items) != 2 || items[0].At != at(3, 0) || items[1].At != at(4, 0) {
		t.Errorf("board items = %v, want pickaxes at (3,0) and (4,0)", items)
	}
	if r.holder.HasItems() {
		t.Errorf("held = %v, want empty", r.holder.Items())
	}
	if r.logs.Len() != 0 {
		t.Errorf("unexpected warnings: %v", r.logs.All())
	}
}

func TestDropOnOccupiedCellIsLogged(t *testing.T) {
	r := newRig(t, 3, 1, at(0, 0))
	r.world(t, world.SpawnItemAt(item.Pickaxe, at(1, 0)))
	r.world(t, world.SpawnItemAt(item.Pickaxe, at(2, 0)))
	r.world(t, world.Move(grid.East))
	r.world(t, world.Move(grid.East))
	r.player(t, world.DropItem(item.Pickaxe))
	if r.picker.CanDropHere() {
		t.Fatal("the cell already holds the first pickaxe")
	}

	evs := r.player(t, world.DropItem(item.Pickaxe))
	if len(evs) != 1 {
		t.Errorf("events = %v, want only ItemDropped", evs)
	}
	if n := len(r.game.World().Items()); n != 1 {
		t.Errorf("board items = %d, want 1", n)
	}
	if got := r.logs.FilterMessage("dropped item lost, cell already holds an item").Len(); got != 1 {
		t.Errorf("warnings = %d, want 1", got)
	}
}

func TestHolderKeepsPickupOrder(t *testing.T) {
	h := NewHolder()
	const second item.Item = 2
	h.Process(event.ItemPickedUp{Item: second})
	h.Process(event.ItemPickedUp{Item: item.Pickaxe})
	h.Process(event.ItemPickedUp{Item: second})

	if got := h.Items(); len(got) != 3 || got[0] != second || got[1] != item.Pickaxe || got[2] != second {
		t.Fatalf("items = %v", got)
	}
	if h.Count(second) != 2 {
		t.Errorf("count = %d, want both copies", h.Count(second))
	}
	if next, _ := h.Next(); next != second {
		t.Errorf("next = %s, want the item held longest", next)
	}

	h.Process(event.ItemDropped{Item: second})
	if next, _ := h.Next(); next != item.Pickaxe {
		t.Errorf("next = %s", next)
	}
	h.Process(event.ItemDropped{Item: item.Pickaxe})
	if !h.Has(second) || h.Count(second) != 1 {
		t.Fatal("the younger copy must still be held")
	}
	h.Process(event.ItemDropped{Item: second})
	if h.HasItems() {
		t.Error("inventory should be empty")
	}
	if _, ok := h.Next(); ok {
		t.Error("Next on empty inventory")
	}
}

func TestHolderConcurrentReads(t *testing.T) {
	h := NewHolder()
	stop := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				items := h.Items()
				if len(items) > 1 {
					t.Errorf("torn inventory: %v", items)
					return
				}
				if h.HasItems() && len(items) == 1 && items[0] != item.Pickaxe {
					t.Errorf("unexpected item %s", items[0])
					return
				}
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		h.Process(event.ItemPickedUp{Item: item.Pickaxe})
		h.Process(event.ItemDropped{Item: item.Pickaxe})
	}
	close(stop)
	wg.Wait()
}

func TestJournalCounts(t *testing.T) {
	r := newRig(t, 3, 3, at(1, 1))
	r.world(t, world.Turn(grid.East))
	r.world(t, world.Turn(grid.South))

	if n := r.journal.Count(event.KindPlayerTurned); n != 2 {
		t.Errorf("turns = %d", n)
	}
	if n := r.journal.Count(event.KindWorldResized); n != 1 {
		t.Errorf("resizes = %d", n)
	}
	if n := r.journal.Count(event.KindWallBuilt); n != 0 {
		t.Errorf("walls = %d", n)
	}
}
