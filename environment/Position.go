package environment

import (
	"fmt"

	"github.com/samuelfneumann/pdworld/utils/intutils"
)

// Position is a cell coordinate in a Grid. Rows grow downwards and
// columns grow to the right, so (0, 0) is the top-left cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Add returns the position offset by (dr, dc)
func (p Position) Add(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// Distance returns the Manhattan distance between p and q
func (p Position) Distance(q Position) int {
	return intutils.Abs(p.Row-q.Row) + intutils.Abs(p.Col-q.Col)
}

// Less orders positions by row, then by column
func (p Position) Less(q Position) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}
