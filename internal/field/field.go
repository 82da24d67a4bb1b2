// Package field holds the static collidable world: cells tagged with a
// solidity classification, collected into an immutable Field.
package field

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/vovakirdan/scarab/internal/core"
)

// ErrEmptyField is returned when a Field is built from zero cells.
var ErrEmptyField = errors.New("field: at least one cell is required")

// Solidity classifies whether a cell blocks movement.
type Solidity uint8

const (
	NoSolidity Solidity = iota // passable
	Solid                      // blocks movement
)

// Blocks reports whether actors may not enter a cell with this solidity.
func (s Solidity) Blocks() bool {
	return s == Solid
}

// String returns the name used in level and save files.
func (s Solidity) String() string {
	switch s {
	case NoSolidity:
		return "none"
	case Solid:
		return "solid"
	default:
		return fmt.Sprintf("solidity(%d)", uint8(s))
	}
}

// ParseSolidity is the inverse of Solidity.String.
func ParseSolidity(name string) (Solidity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "air", "":
		return NoSolidity, nil
	case "solid":
		return Solid, nil
	default:
		return NoSolidity, fmt.Errorf("field: unknown solidity %q", name)
	}
}

// Cell is a box of the world layout tagged with its solidity.
// Cells may overlap each other.
type Cell struct {
	Solidity Solidity
	Box      core.Box
}

// NewCell creates a cell, validating its geometry.
func NewCell(s Solidity, box core.Box) (Cell, error) {
	if err := box.Validate(); err != nil {
		return Cell{}, err
	}
	return Cell{Solidity: s, Box: box}, nil
}

// Field is the ordered, immutable collection of cells forming the static world.
// Storage order is the order cells were given to New and is used to break ties
// during collision resolution.
type Field struct {
	cells []Cell
}

// New builds a field from a non-empty list of cells.
// The slice is copied; later changes to it do not affect the field.
func New(cells []Cell) (*Field, error) {
	if len(cells) == 0 {
		return nil, ErrEmptyField
	}
	for i, c := range cells {
		if err := c.Box.Validate(); err != nil {
			return nil, fmt.Errorf("field: cell %d: %w", i, err)
		}
	}
	owned := make([]Cell, len(cells))
	copy(owned, cells)
	return &Field{cells: owned}, nil
}

// Len returns the number of cells.
func (f *Field) Len() int {
	return len(f.cells)
}

// Cell returns the cell at storage index i.
func (f *Field) Cell(i int) Cell {
	return f.cells[i]
}

// Cells iterates all cells in storage order.
func (f *Field) Cells() iter.Seq2[int, Cell] {
	return func(yield func(int, Cell) bool) {
		for i, c := range f.cells {
			if !yield(i, c) {
				return
			}
		}
	}
}

// CellsOverlapping iterates, in storage order, the cells whose box intersects
// query and whose solidity satisfies match. The sequence is lazy and can be
// ranged over any number of times.
func (f *Field) CellsOverlapping(query core.Box, match func(Solidity) bool) iter.Seq2[int, Cell] {
	return func(yield func(int, Cell) bool) {
		for i, c := range f.cells {
			if !match(c.Solidity) || !c.Box.Intersects(query) {
				continue
			}
			if !yield(i, c) {
				return
			}
		}
	}
}

// SolidCellsOverlapping iterates the Solid cells intersecting query.
func (f *Field) SolidCellsOverlapping(query core.Box) iter.Seq2[int, Cell] {
	return f.CellsOverlapping(query, Solidity.Blocks)
}

// Bounds returns the smallest box covering every cell.
func (f *Field) Bounds() core.Box {
	b := f.cells[0].Box
	for _, c := range f.cells[1:] {
		b = b.Union(c.Box)
	}
	return b
}
