package event

import "github.com/geoscape/server/internal/core/ecs"

// Geoscape lifecycle events. Handles are only meaningful within the session
// that emitted them.

type MissionSiteSpawned struct {
	Site       ecs.EntityID
	Deployment string
}

// MissionSiteSpotted is raised by radar coverage or a direct alert.
type MissionSiteSpotted struct {
	Site ecs.EntityID
}

// BattleStarted is raised when a craft lands its troops at the site.
type BattleStarted struct {
	Site ecs.EntityID
}

// BattleResolved is raised by the battle-transition handler after debriefing.
type BattleResolved struct {
	Site    ecs.EntityID
	Success bool
}

type MissionSiteExpired struct {
	Site     ecs.EntityID
	SiteID   int
	TypeName string
}

type CraftDestroyed struct {
	Craft    ecs.EntityID
	UniqueID int
}

// AreaScanned is raised by radar sweeps. Sites within Radius radians of the
// point become detected.
type AreaScanned struct {
	Lon    float64
	Lat    float64
	Radius float64
}
