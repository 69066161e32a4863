package maps

import "math"

// Cube is a point on the triangular lattice used for corner identity.
// Hex centers sit at 3x their cube coordinates, so every corner, being the
// centroid of three mutually adjacent centers, lands on an integer point.
type Cube struct {
	X, Y, Z int
}

// directions are the six neighbor offsets in cube coordinates, in order
// around a hex.
var directions = [6]Cube{
	{1, -1, 0}, {1, 0, -1}, {0, 1, -1},
	{-1, 1, 0}, {-1, 0, 1}, {0, -1, 1},
}

func (c Cube) add(o Cube) Cube {
	return Cube{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

func (c Cube) scale(k int) Cube {
	return Cube{c.X * k, c.Y * k, c.Z * k}
}

// axialToCube converts axial (q, r) to cube coordinates.
func axialToCube(q, r int) Cube {
	return Cube{q, -q - r, r}
}

// cornerOffset returns the lattice offset of the i-th corner from a hex
// center, in 3x cube units.
func cornerOffset(i int) Cube {
	return directions[i].add(directions[(i+1)%6])
}

// distance returns the hex distance of (q, r) from the origin.
func distance(q, r int) int {
	return max(abs(q), abs(r), abs(q+r))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var sqrt3 = math.Sqrt(3)

// pixel projects a 3x-scaled cube point onto the plane for pointy-top hexes
// of the given size.
func pixel(c Cube, size float64) (x, y float64) {
	q := float64(c.X) / 3
	r := float64(c.Z) / 3
	return size * sqrt3 * (q + r/2), size * 1.5 * r
}

func contains(slice []int, val int) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}
