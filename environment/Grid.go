package environment

import (
	"errors"
	"fmt"

	"github.com/samuelfneumann/pdworld/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrOutOfBounds = errors.New("position out of bounds")
	ErrNoDropoffs  = errors.New("no dropoff cells")
	ErrOverlap     = errors.New("cells overlap")
	ErrCapacity    = errors.New("capacity must be positive")
)

// PickupCell is a cell holding a stock of blocks which agents can pick
// up one at a time
type PickupCell struct {
	Position
	Blocks int // Number of blocks the cell holds after a reset
}

// DropoffCell is a cell which absorbs delivered blocks up to some
// capacity
type DropoffCell struct {
	Position
	Capacity int
}

// Grid holds the state of the world which is not owned by any agent:
// the grid dimensions, the number of blocks remaining in each cell, and
// the number of blocks each dropoff cell has absorbed.
//
// Block counts are stored in a rows x cols matrix, where every cell
// that is not a pickup cell always holds zero blocks.
type Grid struct {
	rows, cols int
	blocks     *mat.Dense

	pickups  []PickupCell
	dropoffs []DropoffCell

	delivered    []int            // Parallel to dropoffs
	dropoffIndex map[Position]int // Position -> index into dropoffs
}

// NewGrid creates a new Grid with r rows and c columns. The Grid is
// returned fully stocked: each pickup cell holds its blocks and each
// dropoff cell is empty.
func NewGrid(r, c int, pickups []PickupCell, dropoffs []DropoffCell) (*Grid,
	error) {
	if r <= 0 || c <= 0 {
		return nil, fmt.Errorf("newGrid: grid dimensions must be positive, "+
			"have (%d, %d)", r, c)
	}
	if len(dropoffs) == 0 {
		return nil, fmt.Errorf("newGrid: %w", ErrNoDropoffs)
	}

	g := &Grid{
		rows:         r,
		cols:         c,
		blocks:       mat.NewDense(r, c, nil),
		dropoffIndex: make(map[Position]int, len(dropoffs)),
	}

	for i, d := range dropoffs {
		if !g.InBounds(d.Position) {
			return nil, fmt.Errorf("newGrid: dropoff %v: %w", d.Position,
				ErrOutOfBounds)
		}
		if d.Capacity <= 0 {
			return nil, fmt.Errorf("newGrid: dropoff %v: %w", d.Position,
				ErrCapacity)
		}
		if _, ok := g.dropoffIndex[d.Position]; ok {
			return nil, fmt.Errorf("newGrid: dropoff %v listed twice: %w",
				d.Position, ErrOverlap)
		}
		g.dropoffIndex[d.Position] = i
	}
	g.dropoffs = append([]DropoffCell(nil), dropoffs...)
	g.delivered = make([]int, len(dropoffs))

	if err := g.setPickups(pickups); err != nil {
		return nil, fmt.Errorf("newGrid: %w", err)
	}

	g.restock()
	return g, nil
}

// Dims returns the number of rows and columns in the Grid
func (g *Grid) Dims() (r, c int) {
	return g.rows, g.cols
}

// InBounds returns whether p lies on the Grid
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// Blocks returns the number of blocks remaining at p
func (g *Grid) Blocks(p Position) int {
	if !g.InBounds(p) {
		return 0
	}
	return int(g.blocks.At(p.Row, p.Col))
}

// IsDropoff returns whether p is a dropoff cell
func (g *Grid) IsDropoff(p Position) bool {
	_, ok := g.dropoffIndex[p]
	return ok
}

// Delivered returns how many blocks have been delivered to the dropoff
// cell at p, and whether p is a dropoff cell at all
func (g *Grid) Delivered(p Position) (int, bool) {
	i, ok := g.dropoffIndex[p]
	if !ok {
		return 0, false
	}
	return g.delivered[i], true
}

// CanAccept returns whether the dropoff cell at p can absorb one more
// block
func (g *Grid) CanAccept(p Position) bool {
	i, ok := g.dropoffIndex[p]
	if !ok {
		return false
	}
	return g.delivered[i] < g.dropoffs[i].Capacity
}

// Pickups returns a copy of the pickup cells
func (g *Grid) Pickups() []PickupCell {
	return append([]PickupCell(nil), g.pickups...)
}

// Dropoffs returns a copy of the dropoff cells
func (g *Grid) Dropoffs() []DropoffCell {
	return append([]DropoffCell(nil), g.dropoffs...)
}

// AllDelivered returns whether every dropoff cell is full
func (g *Grid) AllDelivered() bool {
	for i, d := range g.dropoffs {
		if g.delivered[i] < d.Capacity {
			return false
		}
	}
	return true
}

// Exhausted returns whether every pickup cell is empty
func (g *Grid) Exhausted() bool {
	return g.Remaining() == 0
}

// Remaining returns the number of blocks left in all pickup cells
func (g *Grid) Remaining() int {
	return int(matutils.Sum(g.blocks))
}

// BlockCounts returns a copy of the per-cell block counts
func (g *Grid) BlockCounts() [][]int {
	return matutils.Ints(g.blocks)
}

// takeBlock removes one block from p, returning whether there was a
// block to take
func (g *Grid) takeBlock(p Position) bool {
	n := g.Blocks(p)
	if n <= 0 {
		return false
	}
	g.blocks.Set(p.Row, p.Col, float64(n-1))
	return true
}

// deliver adds one block to the dropoff cell at p, returning whether
// the cell could accept it
func (g *Grid) deliver(p Position) bool {
	if !g.CanAccept(p) {
		return false
	}
	g.delivered[g.dropoffIndex[p]]++
	g.check()
	return true
}

// restock sets every pickup cell to its full stock and empties every
// dropoff cell
func (g *Grid) restock() {
	g.blocks.Zero()
	for _, p := range g.pickups {
		g.blocks.Set(p.Row, p.Col, float64(p.Blocks))
	}
	for i := range g.delivered {
		g.delivered[i] = 0
	}
}

// setPickups replaces the pickup cells. The new cells take effect in
// the block counts at the next restock.
func (g *Grid) setPickups(pickups []PickupCell) error {
	seen := make(map[Position]bool, len(pickups))
	for _, p := range pickups {
		if !g.InBounds(p.Position) {
			return fmt.Errorf("pickup %v: %w", p.Position, ErrOutOfBounds)
		}
		if p.Blocks <= 0 {
			return fmt.Errorf("pickup %v: %w", p.Position, ErrCapacity)
		}
		if seen[p.Position] {
			return fmt.Errorf("pickup %v listed twice: %w", p.Position,
				ErrOverlap)
		}
		if g.IsDropoff(p.Position) {
			return fmt.Errorf("pickup %v is also a dropoff: %w", p.Position,
				ErrOverlap)
		}
		seen[p.Position] = true
	}

	g.pickups = append([]PickupCell(nil), pickups...)
	return nil
}

// check panics if a Grid invariant is violated. A violation can only
// be caused by a bug in this package.
func (g *Grid) check() {
	r, c := g.blocks.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if g.blocks.At(i, j) < 0 {
				panic(fmt.Sprintf("check: negative block count at (%d,%d)",
					i, j))
			}
		}
	}
	for i, d := range g.dropoffs {
		if g.delivered[i] < 0 || g.delivered[i] > d.Capacity {
			panic(fmt.Sprintf("check: dropoff %v holds %d blocks with "+
				"capacity %d", d.Position, g.delivered[i], d.Capacity))
		}
	}
}

// String returns the block counts of the Grid as a matrix
func (g *Grid) String() string {
	return matutils.Format(g.blocks)
}
