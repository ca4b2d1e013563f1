package boolmaze

// GateKind is a 2-input boolean gate. The numeric values match the cell
// values of [GateGrid].
type GateKind int

const (
	Nor GateKind = iota
	Xor
	Or
	And
	Xnor
	Nand
)

var gateNames = [...]string{"NOR", "XOR", "OR", "AND", "XNOR", "NAND"}

func (g GateKind) String() string {
	if g < Nor || g > Nand {
		return "Gate Not Found"
	}
	return gateNames[g]
}

// Dead reports whether the gate is AND or NOR, the gates a goal cell may
// never carry.
func (g GateKind) Dead() bool {
	return g%3 == 0
}

// Inverse returns the gate whose truth table is the negation of g.
func (g GateKind) Inverse() GateKind {
	switch g {
	case Nor:
		return Or
	case Xor:
		return Xnor
	case Or:
		return Nor
	case And:
		return Nand
	case Xnor:
		return Xor
	case Nand:
		return And
	}
	return g
}

// Evaluate applies the gate to the two bits of digit (digit>>1, digit&1).
// Digits outside 0..3 never pass.
func Evaluate(g GateKind, digit int) bool {
	if digit < 0 || digit > 3 {
		return false
	}
	a, b := digit>>1 == 1, digit&1 == 1
	switch g {
	case Nor:
		return !(a || b)
	case Xor:
		return a != b
	case Or:
		return a || b
	case And:
		return a && b
	case Xnor:
		return a == b
	case Nand:
		return !(a && b)
	}
	return false
}

func (g GateKind) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}
