package system

import (
	"time"

	"github.com/geoscape/server/internal/core/event"
	coresys "github.com/geoscape/server/internal/core/system"
	"github.com/geoscape/server/internal/world"
	"go.uber.org/zap"
)

// CountdownSystem advances the campaign clock and every site's expiry
// countdown. A site that reaches zero is expired and queued for removal.
// Sites in battle are left alone. Phase 1 (Update).
type CountdownSystem struct {
	world *world.State
	bus   *event.Bus
	log   *zap.Logger
	step  int // campaign seconds per tick
}

func NewCountdownSystem(ws *world.State, bus *event.Bus, log *zap.Logger, secondsPerTick int) *CountdownSystem {
	return &CountdownSystem{world: ws, bus: bus, log: log, step: secondsPerTick}
}

func (s *CountdownSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *CountdownSystem) Update(_ time.Duration) {
	s.world.Advance(s.step)
	for _, site := range s.world.MissionSites() {
		if site.InBattlescape() || site.SecondsRemaining() == 0 {
			continue
		}
		if s.world.PendingDestruction(site.Handle()) {
			continue
		}
		left := site.SecondsRemaining() - s.step
		if left > 0 {
			site.SetSecondsRemaining(left)
			continue
		}
		site.SetSecondsRemaining(0)
		s.log.Info("mission site expired",
			zap.Int("site", site.ID()),
			zap.String("type", site.Type()))
		event.Emit(s.bus, event.MissionSiteExpired{
			Site:     site.Handle(),
			SiteID:   site.ID(),
			TypeName: site.Type(),
		})
		s.world.MarkForDestruction(site.Handle())
	}
}
