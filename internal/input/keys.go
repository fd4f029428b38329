package input

import (
	"fmt"
	"strings"
	"time"

	"github.com/crusoe/game/internal/core/grid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Key names one logical key, upper-cased ("W", "ESCAPE").
type Key string

// NormalizeKey trims and upper-cases a key name from a client or a keymap
// file so "w", " W" and "W" are the same key.
func NormalizeKey(name string) Key {
	return Key(cases.Upper(language.Und).String(strings.TrimSpace(name)))
}

// Signal is one key-down, stamped with its arrival time. Throttling
// compares stamps, not the clock at processing time.
type Signal struct {
	Key Key
	At  time.Time
}

// Keymap binds keys to the input categories.
type Keymap struct {
	Movement map[Key]grid.Direction
	Action   Key
	Drop     Key
	Exit     Key
}

// DefaultKeymap is WASD movement, E to build or destroy, Q to drop and
// ESCAPE to quit.
func DefaultKeymap() Keymap {
	return Keymap{
		Movement: map[Key]grid.Direction{
			"W": grid.North,
			"A": grid.West,
			"S": grid.South,
			"D": grid.East,
		},
		Action: "E",
		Drop:   "Q",
		Exit:   "ESCAPE",
	}
}

// Validate rejects keymaps where one key serves two categories, since
// every branch sees every signal.
func (k Keymap) Validate() error {
	if len(k.Movement) == 0 {
		return fmt.Errorf("keymap: no movement keys")
	}
	seen := make(map[Key]string, len(k.Movement)+3)
	claim := func(key Key, what string) error {
		if key == "" {
			return fmt.Errorf("keymap: %s key is empty", what)
		}
		if prev, dup := seen[key]; dup {
			return fmt.Errorf("keymap: key %q bound to both %s and %s", key, prev, what)
		}
		seen[key] = what
		return nil
	}
	for key, d := range k.Movement {
		if err := claim(key, "move "+d.String()); err != nil {
			return err
		}
	}
	for _, b := range []struct {
		key  Key
		what string
	}{{k.Action, "action"}, {k.Drop, "drop"}, {k.Exit, "exit"}} {
		if err := claim(b.key, b.what); err != nil {
			return err
		}
	}
	return nil
}
