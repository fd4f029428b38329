package grid

import "fmt"

// Coordinates is a cell on the board. (0,0) is the north-west corner;
// y grows southward.
type Coordinates struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the neighbouring cell in direction d. The result may lie
// outside any board; callers check bounds.
func (c Coordinates) Step(d Direction) Coordinates {
	dx, dy := d.Delta()
	return Coordinates{X: c.X + dx, Y: c.Y + dy}
}

// Less orders cells row-major (y first, then x).
func (c Coordinates) Less(o Coordinates) bool {
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}

// Dimensions is the size of the board in cells.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// Contains reports whether c lies on a board of these dimensions.
func (d Dimensions) Contains(c Coordinates) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < d.Width && c.Y < d.Height
}

// Direction is a facing or a movement heading.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
)

// Directions lists every direction, in declaration order.
var Directions = [...]Direction{North, South, East, West}

// Delta returns the unit offset of one step in direction d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case South:
		return "SOUTH"
	case East:
		return "EAST"
	case West:
		return "WEST"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// ParseDirection maps a direction name (as produced by String) back to a
// Direction.
func ParseDirection(s string) (Direction, error) {
	for _, d := range Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}
