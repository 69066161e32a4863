package game

import (
	"fmt"
	"strings"
)

// ResourceType represents a type of resource.
type ResourceType int

const (
	ResourceNone ResourceType = iota
	ResourceBrick
	ResourceLumber
	ResourceOre
	ResourceGrain
	ResourceWool
)

// AllResources lists the five tradeable resources in a fixed order.
var AllResources = [...]ResourceType{
	ResourceBrick,
	ResourceLumber,
	ResourceOre,
	ResourceGrain,
	ResourceWool,
}

// String returns the resource name.
func (r ResourceType) String() string {
	switch r {
	case ResourceBrick:
		return "brick"
	case ResourceLumber:
		return "lumber"
	case ResourceOre:
		return "ore"
	case ResourceGrain:
		return "grain"
	case ResourceWool:
		return "wool"
	default:
		return "none"
	}
}

// Valid returns true for the five tradeable resources.
func (r ResourceType) Valid() bool {
	return r >= ResourceBrick && r <= ResourceWool
}

// ParseResource parses a resource name. Unknown names return ResourceNone.
func ParseResource(s string) ResourceType {
	switch strings.ToLower(s) {
	case "brick":
		return ResourceBrick
	case "lumber", "wood":
		return ResourceLumber
	case "ore":
		return ResourceOre
	case "grain", "wheat":
		return ResourceGrain
	case "wool", "sheep":
		return ResourceWool
	default:
		return ResourceNone
	}
}

// MarshalText encodes the resource by name.
func (r ResourceType) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a resource name.
func (r *ResourceType) UnmarshalText(b []byte) error {
	s := string(b)
	parsed := ParseResource(s)
	if parsed == ResourceNone && s != "none" && s != "" {
		return fmt.Errorf("unknown resource %q", s)
	}
	*r = parsed
	return nil
}

// Stockpile is a bundle of resources: a player's hand, a cost, or one side
// of a trade. It is a value type so copying a player copies the hand.
type Stockpile struct {
	Brick  int `json:"brick,omitempty"`
	Lumber int `json:"lumber,omitempty"`
	Ore    int `json:"ore,omitempty"`
	Grain  int `json:"grain,omitempty"`
	Wool   int `json:"wool,omitempty"`
}

// Build costs.
var (
	CostRoad       = Stockpile{Brick: 1, Lumber: 1}
	CostSettlement = Stockpile{Brick: 1, Lumber: 1, Grain: 1, Wool: 1}
	CostCity       = Stockpile{Grain: 2, Ore: 3}
	CostDevCard    = Stockpile{Ore: 1, Grain: 1, Wool: 1}
)

// Single returns a bundle holding n of one resource.
func Single(r ResourceType, n int) Stockpile {
	var s Stockpile
	s.Add(r, n)
	return s
}

// Get returns the amount of a resource.
func (s Stockpile) Get(r ResourceType) int {
	switch r {
	case ResourceBrick:
		return s.Brick
	case ResourceLumber:
		return s.Lumber
	case ResourceOre:
		return s.Ore
	case ResourceGrain:
		return s.Grain
	case ResourceWool:
		return s.Wool
	default:
		return 0
	}
}

// Add adds resources to the stockpile.
func (s *Stockpile) Add(r ResourceType, amount int) {
	switch r {
	case ResourceBrick:
		s.Brick += amount
	case ResourceLumber:
		s.Lumber += amount
	case ResourceOre:
		s.Ore += amount
	case ResourceGrain:
		s.Grain += amount
	case ResourceWool:
		s.Wool += amount
	}
}

// Remove removes resources from the stockpile. Returns false if insufficient.
func (s *Stockpile) Remove(r ResourceType, amount int) bool {
	if s.Get(r) < amount {
		return false
	}
	s.Add(r, -amount)
	return true
}

// Total returns the total number of cards.
func (s Stockpile) Total() int {
	return s.Brick + s.Lumber + s.Ore + s.Grain + s.Wool
}

// IsEmpty returns true when the bundle holds nothing.
func (s Stockpile) IsEmpty() bool {
	return s.Total() == 0
}

// NonNegative returns true if no count is below zero.
func (s Stockpile) NonNegative() bool {
	for _, r := range AllResources {
		if s.Get(r) < 0 {
			return false
		}
	}
	return true
}

// CanAfford checks if the stockpile covers a bundle.
func (s Stockpile) CanAfford(cost Stockpile) bool {
	for _, r := range AllResources {
		if s.Get(r) < cost.Get(r) {
			return false
		}
	}
	return true
}

// Plus returns the sum of two bundles.
func (s Stockpile) Plus(o Stockpile) Stockpile {
	for _, r := range AllResources {
		s.Add(r, o.Get(r))
	}
	return s
}

// Minus returns s with o removed. The result may go negative.
func (s Stockpile) Minus(o Stockpile) Stockpile {
	for _, r := range AllResources {
		s.Add(r, -o.Get(r))
	}
	return s
}

// Held returns the resource types with a non-zero count, in fixed order.
func (s Stockpile) Held() []ResourceType {
	var held []ResourceType
	for _, r := range AllResources {
		if s.Get(r) > 0 {
			held = append(held, r)
		}
	}
	return held
}

// String formats the non-zero counts, e.g. "2 ore, 1 grain".
func (s Stockpile) String() string {
	var parts []string
	for _, r := range AllResources {
		if n := s.Get(r); n != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, r))
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
