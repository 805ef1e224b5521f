package system

import (
	"math"
	"math/rand"
	"time"

	"github.com/geoscape/server/internal/core/event"
	coresys "github.com/geoscape/server/internal/core/system"
	"github.com/geoscape/server/internal/data"
	"github.com/geoscape/server/internal/world"
	"go.uber.org/zap"
)

// ScheduleSystem places a new mission site every interval of campaign time.
// The mission is drawn from the catalogue's site missions; a mission that
// flies a ufo lands one at the site and links it. Phase 1 (Update), after
// the countdown.
type ScheduleSystem struct {
	world *world.State
	bus   *event.Bus
	rules *data.Catalogue
	rng   *rand.Rand
	log   *zap.Logger
	every int64 // campaign seconds between spawns, 0 = disabled
	next  int64
}

func NewScheduleSystem(ws *world.State, bus *event.Bus, rules *data.Catalogue, rng *rand.Rand, log *zap.Logger, everyHours int) *ScheduleSystem {
	every := int64(everyHours) * 3600
	return &ScheduleSystem{
		world: ws,
		bus:   bus,
		rules: rules,
		rng:   rng,
		log:   log,
		every: every,
		next:  ws.Elapsed() + every,
	}
}

func (s *ScheduleSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ScheduleSystem) Update(_ time.Duration) {
	if s.every <= 0 || s.world.Elapsed() < s.next {
		return
	}
	s.next = s.world.Elapsed() + s.every

	missions := s.rules.SiteMissions()
	if len(missions) == 0 {
		return
	}
	mission := missions[s.rng.Intn(len(missions))]
	deployment, ok := s.rules.Deployment(mission.SiteDeployment)
	if !ok {
		return // catalogue construction rejects this
	}

	// Uniform over the sphere.
	lon := s.rng.Float64()*2*math.Pi - math.Pi
	lat := math.Asin(2*s.rng.Float64() - 1)

	var craft *world.Craft
	if rule, ok := s.rules.Ufo(mission.SpawnUfo); ok {
		craft = world.NewCraft(rule, 0)
		craft.SetPosition(lon, lat)
		craft.SetStatus(world.CraftLanded)
		if _, err := s.world.AddCraft(craft); err != nil {
			s.log.Error("ufo spawn failed", zap.Error(err))
			craft = nil
		}
	}

	site := SpawnMissionSite(s.world, s.bus, s.rng, SiteSpawn{
		Mission:    mission,
		Deployment: deployment,
		Lon:        lon,
		Lat:        lat,
		Craft:      craft,
	})
	s.log.Info("mission site spawned",
		zap.Int("site", site.ID()),
		zap.String("mission", mission.Type),
		zap.String("deployment", deployment.Type),
		zap.Int("expires_in", site.SecondsRemaining()))
}
