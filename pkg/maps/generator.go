package maps

import "fmt"

// StandardID is the preset used when no layout is named.
const StandardID = "standard"

// standardHarborSpacing places 9 harbors on the 30 perimeter sides of a
// radius-2 board.
var standardHarborSpacing = []int{3, 3, 4}

// Standard returns the 19-hex board with 9 harbor slots.
func Standard() *Layout {
	l, err := Generate(RawLayout{
		ID:            StandardID,
		Name:          "Standard",
		Radius:        2,
		HarborSpacing: standardHarborSpacing,
	})
	if err != nil {
		// The standard parameters are constant.
		panic(err)
	}
	return l
}

// Generate builds the geometry for a hexagonal board of the given radius.
// IDs are assigned in a fixed scan order so the same parameters always
// produce the same layout.
func Generate(raw RawLayout) (*Layout, error) {
	if err := validate(&raw); err != nil {
		return nil, err
	}

	l := &Layout{
		ID:     raw.ID,
		Name:   raw.Name,
		Radius: raw.Radius,
	}

	cornerIDs := make(map[Cube]int)
	pathIDs := make(map[[2]int]int)

	for r := -raw.Radius; r <= raw.Radius; r++ {
		for q := -raw.Radius; q <= raw.Radius; q++ {
			if distance(q, r) > raw.Radius {
				continue
			}
			hex := Hex{ID: len(l.Hexes), Q: q, R: r}
			center := axialToCube(q, r).scale(3)

			for i := 0; i < 6; i++ {
				point := center.add(cornerOffset(i))
				id, ok := cornerIDs[point]
				if !ok {
					id = len(l.Corners)
					cornerIDs[point] = id
					l.Corners = append(l.Corners, Corner{ID: id, Point: point})
				}
				hex.Corners[i] = id
				l.Corners[id].Hexes = append(l.Corners[id].Hexes, hex.ID)
			}

			for i := 0; i < 6; i++ {
				a, b := hex.Corners[i], hex.Corners[(i+1)%6]
				key := [2]int{min(a, b), max(a, b)}
				id, ok := pathIDs[key]
				if !ok {
					id = len(l.Paths)
					pathIDs[key] = id
					l.Paths = append(l.Paths, Path{ID: id, Corners: key})
					l.Corners[a].Neighbors = append(l.Corners[a].Neighbors, b)
					l.Corners[b].Neighbors = append(l.Corners[b].Neighbors, a)
					l.Corners[a].Paths = append(l.Corners[a].Paths, id)
					l.Corners[b].Paths = append(l.Corners[b].Paths, id)
				}
				hex.Paths[i] = id
				l.Paths[id].Hexes = append(l.Paths[id].Hexes, hex.ID)
			}

			l.Hexes = append(l.Hexes, hex)
		}
	}

	l.Perimeter = walkPerimeter(l)
	l.Harbors = placeHarbors(l.Perimeter, raw.HarborSpacing)
	return l, nil
}

// walkPerimeter returns the boundary paths in order, starting from the
// lowest boundary path ID.
func walkPerimeter(l *Layout) []int {
	start := -1
	for _, p := range l.Paths {
		if p.OnBoundary() {
			start = p.ID
			break
		}
	}
	if start < 0 {
		return nil
	}

	var ring []int
	cur := start
	corner := l.Paths[start].Corners[1]
	for {
		ring = append(ring, cur)
		next := -1
		for _, pid := range l.Corners[corner].Paths {
			if pid != cur && l.Paths[pid].OnBoundary() {
				next = pid
				break
			}
		}
		if next < 0 || next == start {
			break
		}
		corner = l.Paths[next].Other(corner)
		cur = next
	}
	return ring
}

// placeHarbors walks the perimeter, dropping a harbor and then skipping
// ahead by the next spacing value.
func placeHarbors(perimeter []int, spacing []int) []int {
	if len(spacing) == 0 {
		return nil
	}
	var harbors []int
	for i, step := 0, 0; i < len(perimeter); step++ {
		harbors = append(harbors, perimeter[i])
		i += spacing[step%len(spacing)]
	}
	return harbors
}

// HexCenter returns the pixel center of a hex for pointy-top cells of the
// given size.
func (l *Layout) HexCenter(id int, size float64) (x, y float64) {
	h := l.Hexes[id]
	return pixel(axialToCube(h.Q, h.R).scale(3), size)
}

// CornerPoint returns the pixel position of a corner.
func (l *Layout) CornerPoint(id int, size float64) (x, y float64) {
	return pixel(l.Corners[id].Point, size)
}

// Info summarizes the layout.
func (l *Layout) Info() LayoutInfo {
	return LayoutInfo{
		ID:          l.ID,
		Name:        l.Name,
		HexCount:    len(l.Hexes),
		CornerCount: len(l.Corners),
		PathCount:   len(l.Paths),
		HarborCount: len(l.Harbors),
	}
}

func validate(raw *RawLayout) error {
	if raw.ID == "" {
		return fmt.Errorf("layout ID is required")
	}
	if raw.Radius < 1 {
		return fmt.Errorf("invalid radius: %d", raw.Radius)
	}
	for _, s := range raw.HarborSpacing {
		if s < 1 {
			return fmt.Errorf("invalid harbor spacing: %v", raw.HarborSpacing)
		}
	}
	return nil
}
