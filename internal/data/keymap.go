package data

import (
	"fmt"
	"os"

	"github.com/crusoe/game/internal/core/grid"
	"github.com/crusoe/game/internal/input"
	"gopkg.in/yaml.v3"
)

// KeymapTable is the raw form of keymap.yaml.
type KeymapTable struct {
	Movement map[string]string `yaml:"movement"` // key -> NORTH/SOUTH/EAST/WEST
	Action   string            `yaml:"action"`
	Drop     string            `yaml:"drop"`
	Exit     string            `yaml:"exit"`
}

// LoadKeymapTable loads keymap.yaml.
func LoadKeymapTable(path string) (*KeymapTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keymap: %w", err)
	}
	var t KeymapTable
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse keymap: %w", err)
	}
	return &t, nil
}

// Keymap converts the table into a validated input.Keymap. Key names are
// normalized, so the file may use any case.
func (t *KeymapTable) Keymap() (input.Keymap, error) {
	km := input.Keymap{
		Movement: make(map[input.Key]grid.Direction, len(t.Movement)),
		Action:   input.NormalizeKey(t.Action),
		Drop:     input.NormalizeKey(t.Drop),
		Exit:     input.NormalizeKey(t.Exit),
	}
	for key, name := range t.Movement {
		d, err := grid.ParseDirection(string(input.NormalizeKey(name)))
		if err != nil {
			return input.Keymap{}, fmt.Errorf("keymap movement %q: %w", key, err)
		}
		k := input.NormalizeKey(key)
		if _, dup := km.Movement[k]; dup {
			return input.Keymap{}, fmt.Errorf("keymap movement: key %q listed twice", k)
		}
		km.Movement[k] = d
	}
	if err := km.Validate(); err != nil {
		return input.Keymap{}, err
	}
	return km, nil
}

// Count returns the number of bound keys.
func (t *KeymapTable) Count() int {
	n := len(t.Movement)
	for _, k := range []string{t.Action, t.Drop, t.Exit} {
		if k != "" {
			n++
		}
	}
	return n
}
