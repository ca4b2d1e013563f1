package boolmaze

import "strings"

// Effect is what a press reports back to the bomb. A single press can both
// strike and solve when the start cell is the goal.
type Effect uint8

const EffectNone Effect = 0

const (
	EffectStrike Effect = 1 << iota
	EffectSolved
)

func (e Effect) Has(flag Effect) bool {
	return e&flag != 0
}

func (e Effect) String() string {
	if e == EffectNone {
		return "none"
	}
	parts := make([]string, 0, 2)
	if e.Has(EffectStrike) {
		parts = append(parts, "strike")
	}
	if e.Has(EffectSolved) {
		parts = append(parts, "solved")
	}
	return strings.Join(parts, "+")
}

func (e Effect) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Attempt describes the check made for one movement press.
type Attempt struct {
	Direction    Direction `json:"direction"`
	Target       Point     `json:"target"`
	TargetInvert Point     `json:"target_invert"`
	Gate         GateKind  `json:"gate"`
	Inverted     bool      `json:"inverted"`
	Legal        bool      `json:"legal"`
}

// ShownGate is the gate as the defuser has to read it, with the invert cell
// applied.
func (a Attempt) ShownGate() GateKind {
	if a.Inverted {
		return a.Gate.Inverse()
	}
	return a.Gate
}

type Result struct {
	Button   Button   `json:"button"`
	Effect   Effect   `json:"effect"`
	Ignored  bool     `json:"ignored,omitempty"`
	Moved    bool     `json:"moved,omitempty"`
	Reset    bool     `json:"reset,omitempty"`
	Attempt  *Attempt `json:"attempt,omitempty"`
	Rerolled bool     `json:"rerolled,omitempty"` // even when the new digit equals the old one

	From       Point `json:"from"`
	FromInvert Point `json:"from_invert"`
	To         Point `json:"to"`
	ToInvert   Point `json:"to_invert"`

	// Digit was on the display when the button was pressed.
	Digit     int `json:"digit"`
	NextDigit int `json:"next_digit"`
}

func (r Result) Strike() bool { return r.Effect.Has(EffectStrike) }
func (r Result) Solved() bool { return r.Effect.Has(EffectSolved) }
