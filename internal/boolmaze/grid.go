package boolmaze

import "fmt"

const (
	GridSize       = 10
	InvertGridSize = 5
)

// GateGrid is the fixed layout of gates the defuser walks through.
var GateGrid = [GridSize][GridSize]GateKind{
	{Nor, Xor, Or, And, Or, And, Xor, Nand, Or, Xor},
	{Xor, And, Or, Nand, Or, Or, Or, And, Xor, Nand},
	{Or, Xnor, Or, Or, Xor, Nor, Or, And, Or, Xnor},
	{And, Nand, Or, Nor, Or, Xor, And, Nor, Or, Or},
	{Or, Xnor, And, Or, Nand, Nor, Or, Or, Nor, Xor},
	{Xor, Or, Nand, Nor, Or, Or, And, Nor, Xor, Or},
	{Or, Or, And, Nor, Or, And, Xor, Or, Or, Xor},
	{Xor, Xnor, Or, Xnor, Or, Xor, Xnor, Xnor, Nand, Or},
	{Xor, Or, Or, Or, Nand, Xnor, Nor, Nand, Or, Xor},
	{Or, Xnor, Xor, Xnor, And, Or, Xor, Or, And, Nor},
}

// InvertGrid marks the cells of the small grid that flip the result of the
// gate being entered.
var InvertGrid = [InvertGridSize][InvertGridSize]bool{
	{false, true, true, false, false},
	{false, true, false, false, true},
	{true, false, false, false, false},
	{false, false, false, true, true},
	{true, true, false, false, true},
}

// Point is a (row, col) coordinate. Row 0 is the top row.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Step moves p one cell in direction d on a torus of the given size.
func (p Point) Step(d Direction, size int) Point {
	dr, dc := d.Delta()
	return Point{Row: wrap(p.Row+dr, size), Col: wrap(p.Col+dc, size)}
}

// Gate returns the gate of the main grid cell at p.
func (p Point) Gate() GateKind {
	return GateGrid[p.Row][p.Col]
}

// Inverts reports whether the invert grid cell at p is set.
func (p Point) Inverts() bool {
	return InvertGrid[p.Row][p.Col]
}

func wrap(i, size int) int {
	for i < 0 {
		i += size
	}
	for i >= size {
		i -= size
	}
	return i
}
