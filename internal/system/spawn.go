package system

import (
	"math/rand"

	"github.com/geoscape/server/internal/core/event"
	"github.com/geoscape/server/internal/data"
	"github.com/geoscape/server/internal/world"
)

// SiteSpawn describes a mission site requested by a campaign event.
type SiteSpawn struct {
	Mission      *data.MissionRule
	Deployment   *data.DeploymentRule
	CustomDeploy *data.DeploymentRule // optional
	Lon, Lat     float64
	City         string
	Race         string       // "" = the deployment's race
	Craft        *world.Craft // craft that spawned the site, optional
}

// SpawnMissionSite creates a site, schedules its expiry from the deployment's
// duration range and announces it. A deployment without a duration gets no
// expiry.
func SpawnMissionSite(ws *world.State, bus *event.Bus, rng *rand.Rand, sp SiteSpawn) *world.MissionSite {
	site := world.NewMissionSite(sp.Mission, sp.Deployment, sp.CustomDeploy)
	site.SetPosition(sp.Lon, sp.Lat)
	site.SetCity(sp.City)

	race := sp.Race
	if race == "" {
		race = sp.Deployment.Race
	}
	site.SetAlienRace(race)

	if hours := expiryHours(rng, sp.Deployment); hours > 0 {
		site.SetSecondsRemaining(hours * 3600)
	}
	if sp.Craft != nil {
		site.LinkCraft(sp.Craft)
	}

	h := ws.AddMissionSite(site)
	event.Emit(bus, event.MissionSiteSpawned{Site: h, Deployment: sp.Deployment.Type})
	return site
}

func expiryHours(rng *rand.Rand, d *data.DeploymentRule) int {
	if d.DurationMax <= 0 {
		return 0
	}
	if d.DurationMax <= d.DurationMin {
		return d.DurationMax
	}
	return d.DurationMin + rng.Intn(d.DurationMax-d.DurationMin+1)
}
