// Package board provides the axial hex grid, terrain and scoring values.
package board

import "github.com/cory-johannsen/hexfront/internal/game/dice"

// Coord is an axial hex coordinate.
type Coord struct {
	Q int
	R int
}

// Terrain is the ground type of a hex.
type Terrain string

const (
	TerrainGrass    Terrain = "grass"
	TerrainWater    Terrain = "water"
	TerrainForest   Terrain = "forest"
	TerrainToxic    Terrain = "toxic"
	TerrainMountain Terrain = "mountain"
)

// Hex is one board cell. Its fields are fixed once the board is generated.
type Hex struct {
	Coord
	// Value is the end-game scoring value, 0 if none.
	Value      int
	IsMountain bool
	Terrain    Terrain
}

// neighborDirections are the six axial neighbor offsets.
var neighborDirections = [6]Coord{
	{Q: 1, R: 0},
	{Q: 1, R: -1},
	{Q: 0, R: -1},
	{Q: -1, R: 0},
	{Q: -1, R: 1},
	{Q: 0, R: 1},
}

// Distance returns the hex distance between a and b.
//
// Postcondition: Returns max(|dq|, |dr|, |dq+dr|) >= 0.
func Distance(a, b Coord) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs((a.Q + a.R) - (b.Q + b.R))
	return max(dq, dr, ds)
}

// Neighbors returns the six coordinates adjacent to c, whether on a board or not.
func Neighbors(c Coord) []Coord {
	out := make([]Coord, 0, len(neighborDirections))
	for _, d := range neighborDirections {
		out = append(out, Coord{Q: c.Q + d.Q, R: c.R + d.R})
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Board is the generated set of hexes in a stable generation order.
type Board struct {
	hexes []*Hex
	index map[Coord]*Hex
}

// New builds a Board from explicit hexes, preserving their order.
//
// Precondition: no two hexes share a coordinate.
func New(hexes []*Hex) *Board {
	b := &Board{hexes: hexes, index: make(map[Coord]*Hex, len(hexes))}
	for _, h := range hexes {
		b.index[h.Coord] = h
	}
	return b
}

// Hexes returns the board hexes in generation order. Callers must not modify them.
func (b *Board) Hexes() []*Hex {
	return b.hexes
}

// Hex returns the hex at c.
//
// Postcondition: Returns (hex, true) if c is on the board, or (nil, false).
func (b *Board) Hex(c Coord) (*Hex, bool) {
	h, ok := b.index[c]
	return h, ok
}

// Len returns the number of hexes on the board.
func (b *Board) Len() int {
	return len(b.hexes)
}

// Options controls board generation.
type Options struct {
	Radius      int
	ValueRadius int
	MaxHexValue int
	Mountains   int
	Water       int
	Forest      int
	Toxic       int
}

// Generate builds a hexagonal board of the given radius around the origin.
// Hexes within ValueRadius receive a random value in [1, MaxHexValue]. Mountains
// replace valued hexes (value reset to 0); water, forest and toxic terrain are
// then drawn without replacement from the remaining non-mountain hexes.
//
// Precondition: opts.Radius >= 1, opts.MaxHexValue >= 1; src must be non-nil.
// Postcondition: Returns a Board with 3r(r+1)+1 hexes.
func Generate(opts Options, src dice.Source) *Board {
	r := opts.Radius
	var hexes []*Hex
	for q := -r; q <= r; q++ {
		for rr := -r; rr <= r; rr++ {
			if abs(q+rr) > r {
				continue
			}
			c := Coord{Q: q, R: rr}
			h := &Hex{Coord: c, Terrain: TerrainGrass}
			if Distance(c, Coord{}) <= opts.ValueRadius {
				h.Value = src.Intn(opts.MaxHexValue) + 1
			}
			hexes = append(hexes, h)
		}
	}

	var valued []*Hex
	for _, h := range hexes {
		if h.Value > 0 {
			valued = append(valued, h)
		}
	}
	for _, h := range pickRandom(src, &valued, opts.Mountains) {
		h.IsMountain = true
		h.Value = 0
		h.Terrain = TerrainMountain
	}

	var open []*Hex
	for _, h := range hexes {
		if !h.IsMountain {
			open = append(open, h)
		}
	}
	for _, h := range pickRandom(src, &open, opts.Water) {
		h.Terrain = TerrainWater
	}
	for _, h := range pickRandom(src, &open, opts.Forest) {
		h.Terrain = TerrainForest
	}
	for _, h := range pickRandom(src, &open, opts.Toxic) {
		h.Terrain = TerrainToxic
	}

	return New(hexes)
}

// pickRandom removes and returns up to count random hexes from pool.
func pickRandom(src dice.Source, pool *[]*Hex, count int) []*Hex {
	var picked []*Hex
	for i := 0; i < count && len(*pool) > 0; i++ {
		idx := src.Intn(len(*pool))
		picked = append(picked, (*pool)[idx])
		*pool = append((*pool)[:idx], (*pool)[idx+1:]...)
	}
	return picked
}
