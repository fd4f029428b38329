package scripting

import (
	"fmt"
	"math/rand"

	"github.com/crusoe/game/internal/core/event"
	"github.com/crusoe/game/internal/core/grid"
	"github.com/crusoe/game/internal/core/item"
	"github.com/crusoe/game/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Updater is the slice of the dispatch bus a bootstrap script may use.
type Updater interface {
	UpdateWorld(req world.Request) ([]event.Event, error)
	World() world.World
}

// Params are exposed to scripts as the global table `config`.
type Params struct {
	Width    int
	Height   int
	MinWalls int
	MaxWalls int
}

// Engine wraps a gopher-lua VM that sets up the board. Scripts change the
// World only through the bus, with the same requests used at runtime.
// Single-goroutine access only.
type Engine struct {
	vm   *lua.LState
	game Updater
	rng  *rand.Rand
	log  *zap.Logger
}

// NewEngine creates a VM exposing the `world` API and the `config` table.
func NewEngine(game Updater, params Params, seed int64, log *zap.Logger) *Engine {
	vm := lua.NewState()
	e := &Engine{
		vm:   vm,
		game: game,
		rng:  rand.New(rand.NewSource(seed)),
		log:  log,
	}

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	cfg := vm.NewTable()
	cfg.RawSetString("width", lua.LNumber(params.Width))
	cfg.RawSetString("height", lua.LNumber(params.Height))
	cfg.RawSetString("min_walls", lua.LNumber(params.MinWalls))
	cfg.RawSetString("max_walls", lua.LNumber(params.MaxWalls))
	vm.SetGlobal("config", cfg)

	vm.SetGlobal("world", vm.SetFuncs(vm.NewTable(), map[string]lua.LGFunction{
		"resize":       e.resize,
		"build_wall":   e.buildWall,
		"destroy_wall": e.destroyWall,
		"spawn_player": e.spawnPlayer,
		"spawn_item":   e.spawnItem,
		"is_wall":      e.isWall,
		"width":        e.width,
		"height":       e.height,
		"random":       e.random,
	}))
	return e
}

// RunFile executes a bootstrap script from disk.
func (e *Engine) RunFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("run %s: %w", path, err)
	}
	e.log.Debug("bootstrap script finished", zap.String("file", path))
	return nil
}

// RunString executes a bootstrap script held in memory.
func (e *Engine) RunString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("run script: %w", err)
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// update applies req and pushes whether it emitted anything. A handler
// failure during setup aborts the script.
func (e *Engine) update(L *lua.LState, req world.Request) int {
	evs, err := e.game.UpdateWorld(req)
	if err != nil {
		L.RaiseError("world update failed: %v", err)
		return 0
	}
	L.Push(lua.LBool(len(evs) > 0))
	return 1
}

func checkCell(L *lua.LState, first int) grid.Coordinates {
	return grid.Coordinates{X: L.CheckInt(first), Y: L.CheckInt(first + 1)}
}

func (e *Engine) resize(L *lua.LState) int {
	d := grid.Dimensions{Width: L.CheckInt(1), Height: L.CheckInt(2)}
	return e.update(L, world.Resize(d))
}

func (e *Engine) buildWall(L *lua.LState) int {
	return e.update(L, world.BuildWallAt(checkCell(L, 1)))
}

func (e *Engine) destroyWall(L *lua.LState) int {
	return e.update(L, world.DestroyWallAt(checkCell(L, 1)))
}

func (e *Engine) spawnPlayer(L *lua.LState) int {
	return e.update(L, world.SpawnPlayerAt(checkCell(L, 1)))
}

func (e *Engine) spawnItem(L *lua.LState) int {
	it, err := item.Parse(L.CheckString(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	return e.update(L, world.SpawnItemAt(it, checkCell(L, 2)))
}

func (e *Engine) isWall(L *lua.LState) int {
	L.Push(lua.LBool(e.game.World().IsWall(checkCell(L, 1))))
	return 1
}

func (e *Engine) width(L *lua.LState) int {
	L.Push(lua.LNumber(e.game.World().Dimensions().Width))
	return 1
}

func (e *Engine) height(L *lua.LState) int {
	L.Push(lua.LNumber(e.game.World().Dimensions().Height))
	return 1
}

// random returns an integer in [0, n).
func (e *Engine) random(L *lua.LState) int {
	n := L.CheckInt(1)
	if n <= 0 {
		L.ArgError(1, "bound must be positive")
		return 0
	}
	L.Push(lua.LNumber(e.rng.Intn(n)))
	return 1
}
