package maps

import (
	"fmt"
	"strings"
)

// Debug returns a string visualization of the layout.
func (l *Layout) Debug() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Layout: %s (%s)\n", l.Name, l.ID))
	sb.WriteString(fmt.Sprintf("Radius: %d\n", l.Radius))
	sb.WriteString(fmt.Sprintf("Hexes: %d\n", len(l.Hexes)))
	sb.WriteString(fmt.Sprintf("Corners: %d\n", len(l.Corners)))
	sb.WriteString(fmt.Sprintf("Paths: %d\n", len(l.Paths)))
	sb.WriteString(fmt.Sprintf("Perimeter: %d sides\n", len(l.Perimeter)))
	sb.WriteString(fmt.Sprintf("Harbors: %v\n\n", l.Harbors))

	// Rows of hex IDs, indented by row offset
	sb.WriteString("Hex Grid:\n")
	row := 0
	for i, h := range l.Hexes {
		if i == 0 || h.R != l.Hexes[i-1].R {
			if i > 0 {
				sb.WriteString("\n")
			}
			row = h.R
			sb.WriteString(strings.Repeat(" ", abs(row)*2))
		}
		sb.WriteString(fmt.Sprintf("%3d ", h.ID))
	}
	sb.WriteString("\n")

	sb.WriteString("\nHexes:\n")
	for _, h := range l.Hexes {
		sb.WriteString(fmt.Sprintf("  %d. (%d,%d) corners %v\n", h.ID, h.Q, h.R, h.Corners))
	}

	return sb.String()
}

// PrintAdjacency lists each corner's neighbors.
func (l *Layout) PrintAdjacency() string {
	var sb strings.Builder

	sb.WriteString("Corner Adjacency:\n")
	for _, c := range l.Corners {
		marker := ""
		for _, pid := range c.Paths {
			if contains(l.Harbors, pid) {
				marker = " H"
				break
			}
		}
		sb.WriteString(fmt.Sprintf("%3d:%s hexes %v neighbors %v\n", c.ID, marker, c.Hexes, c.Neighbors))
	}

	return sb.String()
}
