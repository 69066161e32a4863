package game

import (
	"fmt"

	"settlers/pkg/maps"
)

// Arena handles. Each indexes the matching Board slice.
type (
	TileID   int
	CornerID int
	PathID   int
	PortID   int
)

// Sentinel handles.
const (
	NoTile   TileID   = -1
	NoCorner CornerID = -1
	NoPath   PathID   = -1
	NoPort   PortID   = -1
)

// Tile is one producing (or empty) board cell.
type Tile struct {
	ID       TileID       `json:"id"`
	Resource ResourceType `json:"resource"`
	Number   int          `json:"number,omitempty"` // 0 for the empty tile
	Q        int          `json:"q"`
	R        int          `json:"r"`
	Corners  [6]CornerID  `json:"corners"`
}

// Corner is a building site.
type Corner struct {
	ID        CornerID   `json:"id"`
	Tiles     []TileID   `json:"tiles"`
	Neighbors []CornerID `json:"neighbors"`
	Paths     []PathID   `json:"paths"`
	Port      PortID     `json:"port"`
}

// Path is a road site joining two corners.
type Path struct {
	ID      PathID      `json:"id"`
	Corners [2]CornerID `json:"corners"`
}

// Other returns the far corner of the path from c.
func (p Path) Other(c CornerID) CornerID {
	if p.Corners[0] == c {
		return p.Corners[1]
	}
	return p.Corners[0]
}

// Port improves bank trades for owners of its corners. ResourceNone marks
// a generic 3:1 port.
type Port struct {
	ID       PortID       `json:"id"`
	Resource ResourceType `json:"resource"`
	Path     PathID       `json:"path"`
	Corners  [2]CornerID  `json:"corners"`
}

// Generic reports whether the port trades any resource.
func (p Port) Generic() bool {
	return p.Resource == ResourceNone
}

// Ratio returns how many cards the port takes for one.
func (p Port) Ratio() int {
	if p.Generic() {
		return 3
	}
	return 2
}

// Board is the immutable tile/corner/path graph. It is built once per game
// and shared by every snapshot.
type Board struct {
	LayoutID  string   `json:"layoutId"`
	Tiles     []Tile   `json:"tiles"`
	Corners   []Corner `json:"corners"`
	Paths     []Path   `json:"paths"`
	Ports     []Port   `json:"ports"`
	EmptyTile TileID   `json:"emptyTile"`
}

// standardTiles is the tile multiset for the 19-hex board.
var standardTiles = []ResourceType{
	ResourceLumber, ResourceLumber, ResourceLumber, ResourceLumber,
	ResourceBrick, ResourceBrick, ResourceBrick,
	ResourceOre, ResourceOre, ResourceOre,
	ResourceGrain, ResourceGrain, ResourceGrain, ResourceGrain,
	ResourceWool, ResourceWool, ResourceWool, ResourceWool,
	ResourceNone,
}

// standardTokens are the number tokens for the 18 producing tiles.
var standardTokens = []int{2, 3, 3, 4, 4, 5, 5, 6, 6, 8, 8, 9, 9, 10, 10, 11, 11, 12}

// standardPorts holds 4 generic and one of each specific port.
var standardPorts = []ResourceType{
	ResourceNone, ResourceNone, ResourceNone, ResourceNone,
	ResourceBrick, ResourceLumber, ResourceOre, ResourceGrain, ResourceWool,
}

// NewBoard assigns tiles, number tokens, and ports onto a layout.
func NewBoard(layout *maps.Layout, rng Rand) (*Board, error) {
	if layout == nil || len(layout.Hexes) != len(standardTiles) {
		return nil, fmt.Errorf("%w: need %d hexes", ErrInvalidLayout, len(standardTiles))
	}
	if len(layout.Harbors) != len(standardPorts) {
		return nil, fmt.Errorf("%w: need %d harbors, got %d", ErrInvalidLayout, len(standardPorts), len(layout.Harbors))
	}

	resources := append([]ResourceType(nil), standardTiles...)
	rng.Shuffle(len(resources), func(i, j int) { resources[i], resources[j] = resources[j], resources[i] })

	tokens := append([]int(nil), standardTokens...)
	rng.Shuffle(len(tokens), func(i, j int) { tokens[i], tokens[j] = tokens[j], tokens[i] })

	kinds := append([]ResourceType(nil), standardPorts...)
	rng.Shuffle(len(kinds), func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] })

	b := &Board{
		LayoutID:  layout.ID,
		Tiles:     make([]Tile, len(layout.Hexes)),
		Corners:   make([]Corner, len(layout.Corners)),
		Paths:     make([]Path, len(layout.Paths)),
		Ports:     make([]Port, len(layout.Harbors)),
		EmptyTile: NoTile,
	}

	next := 0
	for i, h := range layout.Hexes {
		t := Tile{ID: TileID(i), Resource: resources[i], Q: h.Q, R: h.R}
		for k, c := range h.Corners {
			t.Corners[k] = CornerID(c)
		}
		if t.Resource == ResourceNone {
			b.EmptyTile = t.ID
		} else {
			t.Number = tokens[next]
			next++
		}
		b.Tiles[i] = t
	}

	for i, c := range layout.Corners {
		corner := Corner{ID: CornerID(i), Port: NoPort}
		for _, h := range c.Hexes {
			corner.Tiles = append(corner.Tiles, TileID(h))
		}
		for _, n := range c.Neighbors {
			corner.Neighbors = append(corner.Neighbors, CornerID(n))
		}
		for _, p := range c.Paths {
			corner.Paths = append(corner.Paths, PathID(p))
		}
		b.Corners[i] = corner
	}

	for i, p := range layout.Paths {
		b.Paths[i] = Path{ID: PathID(i), Corners: [2]CornerID{CornerID(p.Corners[0]), CornerID(p.Corners[1])}}
	}

	for i, pathID := range layout.Harbors {
		path := b.Paths[pathID]
		port := Port{ID: PortID(i), Resource: kinds[i], Path: path.ID, Corners: path.Corners}
		b.Ports[i] = port
		for _, c := range port.Corners {
			b.Corners[c].Port = port.ID
		}
	}

	return b, nil
}

// ValidTile reports whether id names a tile.
func (b *Board) ValidTile(id TileID) bool {
	return id >= 0 && int(id) < len(b.Tiles)
}

// ValidCorner reports whether id names a corner.
func (b *Board) ValidCorner(id CornerID) bool {
	return id >= 0 && int(id) < len(b.Corners)
}

// ValidPath reports whether id names a path.
func (b *Board) ValidPath(id PathID) bool {
	return id >= 0 && int(id) < len(b.Paths)
}

// PortAt returns the port touching a corner, if any. Corners without port
// data report no port.
func (b *Board) PortAt(c CornerID) (Port, bool) {
	if !b.ValidCorner(c) {
		return Port{}, false
	}
	id := b.Corners[c].Port
	if id < 0 || int(id) >= len(b.Ports) {
		return Port{}, false
	}
	return b.Ports[id], true
}

// TilesWithNumber returns the tiles carrying a number token.
func (b *Board) TilesWithNumber(n int) []TileID {
	var ids []TileID
	for _, t := range b.Tiles {
		if t.Number == n {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
