package mines

import "fmt"

type CellKind uint8

const (
	// Invalid is what lookups outside the board return. It is never stored
	// in a grid.
	Invalid CellKind = iota
	Empty
	Number
	Mine
)

func (k CellKind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Empty:
		return "empty"
	case Number:
		return "number"
	case Mine:
		return "mine"
	default:
		return fmt.Sprintf("CellKind(%d)", uint8(k))
	}
}

// [CellKind] implements [encoding.TextMarshaler]
func (k CellKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *CellKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "invalid":
		*k = Invalid
	case "empty":
		*k = Empty
	case "number":
		*k = Number
	case "mine":
		*k = Mine
	default:
		return fmt.Errorf("unknown cell kind %q", b)
	}
	return nil
}

type Point struct {
	X, Y int
}

func (p Point) manhattan(q Point) int {
	return absDiff(p.X, q.X) + absDiff(p.Y, q.Y)
}

type Cell struct {
	Point
	Kind     CellKind
	Adjacent int // mined neighbours, set only for Number cells
	Revealed bool
	Flagged  bool
	Exploded bool
}

func (c Cell) String() string {
	switch {
	case c.Kind == Invalid:
		return "!"
	case c.Flagged && !c.Revealed:
		return "F"
	case !c.Revealed:
		return "#"
	case c.Kind == Mine && c.Exploded:
		return "X"
	case c.Kind == Mine:
		return "*"
	case c.Kind == Number:
		return fmt.Sprint(c.Adjacent)
	default:
		return "."
	}
}
