package world

import (
	"fmt"
	"math"

	"github.com/geoscape/server/internal/core/ecs"
)

// NoMarker is the globe marker of an entity that must not be drawn.
const NoMarker = -1

// Target is the spatial base shared by everything placed on the globe.
// Longitude and latitude are radians.
type Target struct {
	lon    float64
	lat    float64
	id     int    // per-session display number, 0 = unassigned
	name   string // custom label, "" = derived from the marker name
	handle ecs.EntityID
}

// Entity is implemented by every globe object. Save code works through it
// to write the shared Target fields next to each variant's own fields.
type Entity interface {
	Base() *Target
	Type() string
	MarkerName() string
	Marker() int
}

func NewTarget(lon, lat float64) Target {
	return Target{lon: lon, lat: lat}
}

// Base returns the embedded target. Promoted to every entity embedding Target.
func (t *Target) Base() *Target { return t }

func (t *Target) Lon() float64 { return t.lon }
func (t *Target) Lat() float64 { return t.lat }

// SetPosition relocates the target.
func (t *Target) SetPosition(lon, lat float64) {
	t.lon = lon
	t.lat = lat
}

func (t *Target) ID() int          { return t.id }
func (t *Target) SetID(id int)     { t.id = id }
func (t *Target) Name() string     { return t.name }
func (t *Target) SetName(n string) { t.name = n }

// Handle returns the arena handle, zero until the entity joins a State.
func (t *Target) Handle() ecs.EntityID { return t.handle }

// DisplayName returns the custom name, or "<marker name>-<id>".
func DisplayName(e Entity) string {
	b := e.Base()
	if b.name != "" {
		return b.name
	}
	return fmt.Sprintf("%s-%d", e.MarkerName(), b.id)
}

// Distance returns the great-circle angle in radians between t and a point.
func (t *Target) Distance(lon, lat float64) float64 {
	c := math.Sin(t.lat)*math.Sin(lat) + math.Cos(t.lat)*math.Cos(lat)*math.Cos(lon-t.lon)
	// Rounding can push c just outside [-1, 1].
	return math.Acos(math.Max(-1, math.Min(1, c)))
}
