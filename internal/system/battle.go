package system

import (
	"time"

	"github.com/geoscape/server/internal/core/ecs"
	"github.com/geoscape/server/internal/core/event"
	coresys "github.com/geoscape/server/internal/core/system"
	"github.com/geoscape/server/internal/world"
	"go.uber.org/zap"
)

// BattleSystem hands sites to and back from the battlescape. Landing flips
// the site's one-way battle flag; a resolved battle removes the site.
// Events are queued on dispatch and applied in Phase 1 (Update), ahead of
// the countdown so a site entering battle this tick does not expire.
type BattleSystem struct {
	world    *world.State
	log      *zap.Logger
	started  []ecs.EntityID
	resolved []event.BattleResolved
}

func NewBattleSystem(ws *world.State, bus *event.Bus, log *zap.Logger) *BattleSystem {
	s := &BattleSystem{world: ws, log: log}
	event.Subscribe(bus, func(ev event.BattleStarted) {
		s.started = append(s.started, ev.Site)
	})
	event.Subscribe(bus, func(ev event.BattleResolved) {
		s.resolved = append(s.resolved, ev)
	})
	return s
}

func (s *BattleSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *BattleSystem) Update(_ time.Duration) {
	for _, h := range s.started {
		site, ok := s.world.MissionSite(h)
		if !ok {
			continue // removed before the troops landed
		}
		site.EnterBattlescape()
		s.log.Info("battle started", zap.Int("site", site.ID()))
	}
	s.started = s.started[:0]

	for _, ev := range s.resolved {
		site, ok := s.world.MissionSite(ev.Site)
		if !ok {
			continue
		}
		s.log.Info("battle resolved",
			zap.Int("site", site.ID()),
			zap.Bool("success", ev.Success))
		s.world.MarkForDestruction(ev.Site)
	}
	s.resolved = s.resolved[:0]
}
