package event

import (
	"testing"

	"github.com/crusoe/game/internal/core/grid"
)

func TestRouterDeliversByKindInOrder(t *testing.T) {
	r := NewRouter()
	var got []string
	Subscribe(r, func(e WallBuilt) { got = append(got, "first "+e.String()) })
	Subscribe(r, func(e WallBuilt) { got = append(got, "second "+e.String()) })
	Subscribe(r, func(e PlayerTurned) { got = append(got, e.String()) })

	r.Dispatch(WallBuilt{At: grid.Coordinates{X: 1, Y: 2}})
	r.Dispatch(WallDestroyed{At: grid.Coordinates{X: 1, Y: 2}})
	r.Dispatch(PlayerTurned{Facing: grid.West})

	want := []string{
		"first WallBuilt((1,2))",
		"second WallBuilt((1,2))",
		"PlayerTurned(WEST)",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRouterHandles(t *testing.T) {
	r := NewRouter()
	Subscribe(r, func(ItemDropped) {})
	if !r.Handles(KindItemDropped) {
		t.Error("expected ItemDropped to be handled")
	}
	if r.Handles(KindItemPickedUp) {
		t.Error("ItemPickedUp has no subscribers")
	}
}

func TestKindString(t *testing.T) {
	if KindPlayerMoved.String() != "PlayerMoved" {
		t.Errorf("got %q", KindPlayerMoved.String())
	}
	if Kind(200).String() != "Kind(200)" {
		t.Errorf("got %q", Kind(200).String())
	}
}
