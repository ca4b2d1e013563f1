package boolmaze

import "fmt"

// Direction is one of the four movement buttons.
type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

// AllDirections returns the directions in the order the stuck check uses.
func AllDirections() []Direction {
	return []Direction{Down, Up, Right, Left}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "unknown"
	}
}

// Delta returns the row and column offsets for this direction.
func (d Direction) Delta() (rowDelta, colDelta int) {
	switch d {
	case Up:
		return -1, 0
	case Right:
		return 0, 1
	case Down:
		return 1, 0
	case Left:
		return 0, -1
	default:
		return 0, 0
	}
}

// Button is a physical control on the module.
type Button int

const (
	ButtonUp Button = iota
	ButtonRight
	ButtonDown
	ButtonLeft
	ButtonStuck
	ButtonReset
)

var buttonNames = map[string]Button{
	"u":      ButtonUp,
	"up":     ButtonUp,
	"d":      ButtonDown,
	"down":   ButtonDown,
	"l":      ButtonLeft,
	"left":   ButtonLeft,
	"r":      ButtonRight,
	"right":  ButtonRight,
	"reset":  ButtonReset,
	"reset!": ButtonReset,
	"stuck":  ButtonStuck,
	"stuck?": ButtonStuck,
}

// ParseButton maps a lowercase button token to its button.
func ParseButton(token string) (Button, error) {
	b, ok := buttonNames[token]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidButton, token)
	}
	return b, nil
}

// Direction returns the movement direction of a movement button.
func (b Button) Direction() (Direction, bool) {
	if b < ButtonUp || b > ButtonLeft {
		return 0, false
	}
	return Direction(b), true
}

func (b Button) String() string {
	switch b {
	case ButtonStuck:
		return "stuck"
	case ButtonReset:
		return "reset"
	}
	if d, ok := b.Direction(); ok {
		return d.String()
	}
	return "unknown"
}

func (b Button) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
