package world

import "github.com/geoscape/server/internal/data"

// CraftStatus is the flight state of an alien craft.
type CraftStatus int

const (
	CraftFlying CraftStatus = iota
	CraftLanded
	CraftCrashed
	CraftDestroyed
)

var craftStatusNames = [...]string{"STATUS_FLYING", "STATUS_LANDED", "STATUS_CRASHED", "STATUS_DESTROYED"}

func (s CraftStatus) String() string {
	if s < 0 || int(s) >= len(craftStatusNames) {
		return "STATUS_UNKNOWN"
	}
	return craftStatusNames[s]
}

// ParseCraftStatus maps a saved status name back to its value.
func ParseCraftStatus(name string) (CraftStatus, bool) {
	for i, n := range craftStatusNames {
		if n == name {
			return CraftStatus(i), true
		}
	}
	return CraftFlying, false
}

// Globe markers for craft by status.
const (
	markerCraftFlying  = 2
	markerCraftLanded  = 3
	markerCraftCrashed = 4
)

// Craft is an alien craft on the globe. Mission sites refer to it only by
// handle and unique id; they never own it.
type Craft struct {
	Target

	uniqueID int
	rules    *data.UfoRule
	status   CraftStatus
	detected bool
}

// NewCraft creates a craft. uniqueID 0 lets State assign one on insertion.
// Passing a nil rule panics.
func NewCraft(rules *data.UfoRule, uniqueID int) *Craft {
	if rules == nil {
		panic("world: NewCraft called without ufo rule")
	}
	return &Craft{rules: rules, uniqueID: uniqueID}
}

// UniqueID is the stable id used to find this craft across save/load.
func (c *Craft) UniqueID() int { return c.uniqueID }

func (c *Craft) Rules() *data.UfoRule { return c.rules }

func (c *Craft) Type() string       { return c.rules.Type }
func (c *Craft) MarkerName() string { return "STR_UFO" }

func (c *Craft) Status() CraftStatus     { return c.status }
func (c *Craft) SetStatus(s CraftStatus) { c.status = s }

func (c *Craft) Detected() bool     { return c.detected }
func (c *Craft) SetDetected(d bool) { c.detected = d }

// Marker returns the globe icon for the craft's status, NoMarker when
// undetected or destroyed.
func (c *Craft) Marker() int {
	if !c.detected {
		return NoMarker
	}
	switch c.status {
	case CraftFlying:
		return markerCraftFlying
	case CraftLanded:
		return markerCraftLanded
	case CraftCrashed:
		return markerCraftCrashed
	}
	return NoMarker
}
