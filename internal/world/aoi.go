package world

import (
	"math"

	"github.com/geoscape/server/internal/core/ecs"
)

// GlobeGrid is a cell-based area index over longitude/latitude.
// Queries return candidates from every cell the radius may touch; the
// caller does exact great-circle filtering.
// Accessed only from the game loop goroutine, no locks.
type GlobeGrid struct {
	cellSize float64 // radians
	lonCells int32
	latCells int32
	cells    map[cellKey]map[ecs.EntityID]struct{}
}

type cellKey struct {
	cx int32
	cy int32
}

// defaultCellSize is 10 degrees.
const defaultCellSize = math.Pi / 18

func NewGlobeGrid() *GlobeGrid {
	return &GlobeGrid{
		cellSize: defaultCellSize,
		lonCells: int32(math.Ceil(2 * math.Pi / defaultCellSize)),
		latCells: int32(math.Ceil(math.Pi / defaultCellSize)),
		cells:    make(map[cellKey]map[ecs.EntityID]struct{}),
	}
}

func normLon(lon float64) float64 {
	lon = math.Mod(lon, 2*math.Pi)
	if lon < 0 {
		lon += 2 * math.Pi
	}
	return lon
}

func (g *GlobeGrid) key(lon, lat float64) cellKey {
	cx := int32(normLon(lon)/g.cellSize) % g.lonCells
	cy := int32((lat + math.Pi/2) / g.cellSize)
	if cy < 0 {
		cy = 0
	}
	if cy >= g.latCells {
		cy = g.latCells - 1
	}
	return cellKey{cx: cx, cy: cy}
}

// Add places an entity into the grid.
func (g *GlobeGrid) Add(id ecs.EntityID, lon, lat float64) {
	k := g.key(lon, lat)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
}

// Remove takes an entity out of the grid.
func (g *GlobeGrid) Remove(id ecs.EntityID, lon, lat float64) {
	k := g.key(lon, lat)
	cell := g.cells[k]
	if cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
}

// Move updates an entity's cell when its position changes.
func (g *GlobeGrid) Move(id ecs.EntityID, oldLon, oldLat, newLon, newLat float64) {
	if g.key(oldLon, oldLat) == g.key(newLon, newLat) {
		return
	}
	g.Remove(id, oldLon, oldLat)
	g.Add(id, newLon, newLat)
}

// Candidates returns every entity in cells within radius (radians) of the
// given point. Near the poles a whole latitude band is scanned.
func (g *GlobeGrid) Candidates(lon, lat, radius float64) []ecs.EntityID {
	center := g.key(lon, lat)
	span := int32(math.Ceil(radius/g.cellSize)) + 1
	lonSpan := g.lonCells // whole band
	// Cells shrink towards the poles; widen the longitude window accordingly.
	if c := math.Cos(math.Abs(lat) + radius); c > 0.05 {
		if s := int32(math.Ceil(radius/(g.cellSize*c))) + 1; s*2+1 < g.lonCells {
			lonSpan = s
		}
	}

	seen := make(map[cellKey]bool)
	var result []ecs.EntityID
	for dy := -span; dy <= span; dy++ {
		cy := center.cy + dy
		if cy < 0 || cy >= g.latCells {
			continue
		}
		for dx := -lonSpan; dx <= lonSpan; dx++ {
			cx := ((center.cx+dx)%g.lonCells + g.lonCells) % g.lonCells
			k := cellKey{cx: cx, cy: cy}
			if seen[k] {
				continue
			}
			seen[k] = true
			for id := range g.cells[k] {
				result = append(result, id)
			}
		}
	}
	return result
}
