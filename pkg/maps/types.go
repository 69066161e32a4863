// Package maps builds the hex board geometry: cells, the corners where they
// meet, the paths between corners, and the harbor slots on the coast.
package maps

// RawLayout is the format stored in JSON preset files.
type RawLayout struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Radius        int    `json:"radius"`
	HarborSpacing []int  `json:"harborSpacing"` // perimeter sides between consecutive harbors
}

// Layout is the processed board geometry. All slices are indexed by ID.
type Layout struct {
	ID     string
	Name   string
	Radius int

	Hexes   []Hex
	Corners []Corner
	Paths   []Path

	// Perimeter lists boundary path IDs in walking order.
	Perimeter []int

	// Harbors lists the perimeter path IDs that carry a harbor slot.
	Harbors []int
}

// Hex is one board cell in axial coordinates.
type Hex struct {
	ID      int
	Q, R    int
	Corners [6]int // ordered around the cell
	Paths   [6]int // Paths[i] joins Corners[i] and Corners[(i+1)%6]
}

// Corner is a point where up to three hexes meet.
type Corner struct {
	ID        int
	Point     Cube
	Hexes     []int
	Neighbors []int
	Paths     []int
}

// Path joins two corners along a hex side.
type Path struct {
	ID      int
	Corners [2]int
	Hexes   []int
}

// OnBoundary reports whether the path lies on the coast.
func (p Path) OnBoundary() bool {
	return len(p.Hexes) == 1
}

// Other returns the corner at the far end of the path from c.
func (p Path) Other(c int) int {
	if p.Corners[0] == c {
		return p.Corners[1]
	}
	return p.Corners[0]
}

// PathBetween returns the path joining a and b, or -1.
func (l *Layout) PathBetween(a, b int) int {
	for _, pid := range l.Corners[a].Paths {
		if l.Paths[pid].Other(a) == b {
			return pid
		}
	}
	return -1
}

// LayoutInfo contains basic layout information for listing.
type LayoutInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HexCount    int    `json:"hex_count"`
	CornerCount int    `json:"corner_count"`
	PathCount   int    `json:"path_count"`
	HarborCount int    `json:"harbor_count"`
}
