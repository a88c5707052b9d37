package environment

// DropoffStatus describes a dropoff cell and how full it is
type DropoffStatus struct {
	DropoffCell
	Delivered int
}

// AgentStatus describes where an agent is and whether it carries a
// block
type AgentStatus struct {
	Position Position
	Carrying bool
}

// Snapshot is a read-only copy of everything needed to draw the
// Environment. Modifying a Snapshot does not modify the Environment.
type Snapshot struct {
	Rows, Cols int
	Blocks     [][]int // Blocks[r][c] is the number of blocks at (r, c)
	Pickups    []PickupCell
	Dropoffs   []DropoffStatus
	Agents     []AgentStatus
}

// Snapshot returns a copy of the current state of the Environment
func (e *Environment) Snapshot() Snapshot {
	r, c := e.grid.Dims()

	dropoffs := e.grid.Dropoffs()
	statuses := make([]DropoffStatus, len(dropoffs))
	for i, d := range dropoffs {
		statuses[i] = DropoffStatus{DropoffCell: d, Delivered: e.grid.delivered[i]}
	}

	agents := make([]AgentStatus, len(e.agents))
	for i, a := range e.agents {
		agents[i] = AgentStatus{Position: a.Position(), Carrying: a.Carrying()}
	}

	return Snapshot{
		Rows:     r,
		Cols:     c,
		Blocks:   e.grid.BlockCounts(),
		Pickups:  e.grid.Pickups(),
		Dropoffs: statuses,
		Agents:   agents,
	}
}
