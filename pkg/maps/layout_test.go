package maps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStandard_Counts(t *testing.T) {
	l := Standard()

	if len(l.Hexes) != 19 {
		t.Errorf("Expected 19 hexes, got %d", len(l.Hexes))
	}
	if len(l.Corners) != 54 {
		t.Errorf("Expected 54 corners, got %d", len(l.Corners))
	}
	if len(l.Paths) != 72 {
		t.Errorf("Expected 72 paths, got %d", len(l.Paths))
	}
	if len(l.Perimeter) != 30 {
		t.Errorf("Expected 30 perimeter sides, got %d", len(l.Perimeter))
	}
	if len(l.Harbors) != 9 {
		t.Errorf("Expected 9 harbors, got %d", len(l.Harbors))
	}
}

func TestStandard_CornerDegrees(t *testing.T) {
	l := Standard()

	for _, c := range l.Corners {
		if len(c.Hexes) < 1 || len(c.Hexes) > 3 {
			t.Errorf("Corner %d touches %d hexes", c.ID, len(c.Hexes))
		}
		if len(c.Neighbors) < 2 || len(c.Neighbors) > 3 {
			t.Errorf("Corner %d has %d neighbors", c.ID, len(c.Neighbors))
		}
		if len(c.Neighbors) != len(c.Paths) {
			t.Errorf("Corner %d: %d neighbors but %d paths", c.ID, len(c.Neighbors), len(c.Paths))
		}
	}
}

func TestStandard_AdjacencySymmetric(t *testing.T) {
	l := Standard()

	for _, c := range l.Corners {
		for _, n := range c.Neighbors {
			if !contains(l.Corners[n].Neighbors, c.ID) {
				t.Errorf("Corner %d lists %d as neighbor but not the reverse", c.ID, n)
			}
			if l.PathBetween(c.ID, n) < 0 {
				t.Errorf("No path between neighbors %d and %d", c.ID, n)
			}
		}
	}
}

func TestStandard_HexRings(t *testing.T) {
	l := Standard()

	for _, h := range l.Hexes {
		for i := 0; i < 6; i++ {
			p := l.Paths[h.Paths[i]]
			a, b := h.Corners[i], h.Corners[(i+1)%6]
			if p.Other(a) != b {
				t.Errorf("Hex %d side %d does not join corners %d and %d", h.ID, i, a, b)
			}
		}
	}
}

func TestPerimeter_IsClosedWalk(t *testing.T) {
	l := Standard()

	seen := make(map[int]bool)
	for i, pid := range l.Perimeter {
		if !l.Paths[pid].OnBoundary() {
			t.Errorf("Perimeter path %d is interior", pid)
		}
		if seen[pid] {
			t.Errorf("Perimeter visits path %d twice", pid)
		}
		seen[pid] = true

		next := l.Perimeter[(i+1)%len(l.Perimeter)]
		cur := l.Paths[pid]
		nxt := l.Paths[next]
		shared := cur.Corners[0] == nxt.Corners[0] || cur.Corners[0] == nxt.Corners[1] ||
			cur.Corners[1] == nxt.Corners[0] || cur.Corners[1] == nxt.Corners[1]
		if !shared {
			t.Errorf("Perimeter paths %d and %d are not consecutive", pid, next)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Standard()
	b := Standard()

	for i := range a.Corners {
		if a.Corners[i].Point != b.Corners[i].Point {
			t.Fatalf("Corner %d differs between runs", i)
		}
	}
	for i := range a.Harbors {
		if a.Harbors[i] != b.Harbors[i] {
			t.Fatalf("Harbor %d differs between runs", i)
		}
	}
}

func TestGenerate_RejectsBadInput(t *testing.T) {
	if _, err := Generate(RawLayout{ID: "x", Radius: 0}); err == nil {
		t.Error("Expected error for radius 0")
	}
	if _, err := Generate(RawLayout{Radius: 2}); err == nil {
		t.Error("Expected error for missing ID")
	}
	if _, err := Generate(RawLayout{ID: "x", Radius: 2, HarborSpacing: []int{0}}); err == nil {
		t.Error("Expected error for zero harbor spacing")
	}
}

func TestLoadAll_RegistersPresets(t *testing.T) {
	if err := LoadAll(); err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}

	l := Get("crowded-coast")
	if l == nil {
		t.Fatal("Expected crowded-coast preset")
	}
	if len(l.Harbors) != 9 {
		t.Errorf("Expected 9 harbors on crowded-coast, got %d", len(l.Harbors))
	}
	if Get("nope") != nil {
		t.Error("Expected nil for unknown layout")
	}
	if len(List()) < 2 {
		t.Errorf("Expected at least 2 presets, got %d", len(List()))
	}
}

func TestCornerPoint_SitsAtHexRadius(t *testing.T) {
	l := Standard()
	const size = 10.0

	for _, h := range l.Hexes {
		cx, cy := l.HexCenter(h.ID, size)
		for _, c := range h.Corners {
			x, y := l.CornerPoint(c, size)
			d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
			if d < size*size-1e-6 || d > size*size+1e-6 {
				t.Errorf("Corner %d of hex %d at distance^2 %f, want %f", c, h.ID, d, size*size)
			}
		}
	}
}

func TestDebug(t *testing.T) {
	out := Standard().Debug()
	if !strings.Contains(out, "Corners: 54") {
		t.Errorf("Debug output missing corner count:\n%s", out)
	}
	if !strings.Contains(Standard().PrintAdjacency(), "Corner Adjacency") {
		t.Error("PrintAdjacency missing header")
	}
}

func TestLoadDir_RegistersFiles(t *testing.T) {
	dir := t.TempDir()
	raw := `{"id": "tiny-isle", "name": "Tiny Isle", "radius": 1, "harborSpacing": [3]}`
	if err := os.WriteFile(filepath.Join(dir, "tiny.json"), []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := LoadDir(dir); err != nil {
		t.Fatalf("LoadDir failed: %v", err)
	}
	l := Get("tiny-isle")
	if l == nil {
		t.Fatal("Expected tiny-isle to be registered")
	}
	if len(l.Hexes) != 7 {
		t.Errorf("Expected 7 hexes at radius 1, got %d", len(l.Hexes))
	}

	if err := LoadDir(filepath.Join(dir, "missing")); err == nil {
		t.Error("Expected error for missing directory")
	}
}
