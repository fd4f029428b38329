package item

import "fmt"

// Item identifies a kind of carryable object.
type Item uint8

const (
	Pickaxe Item = iota + 1
)

var names = map[Item]string{
	Pickaxe: "PICKAXE",
}

func (i Item) String() string {
	if n, ok := names[i]; ok {
		return n
	}
	return fmt.Sprintf("Item(%d)", uint8(i))
}

// Parse returns the item with the given catalog name.
func Parse(name string) (Item, error) {
	for it, n := range names {
		if n == name {
			return it, nil
		}
	}
	return 0, fmt.Errorf("unknown item %q", name)
}
