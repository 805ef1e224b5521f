package system

import (
	"time"

	"github.com/geoscape/server/internal/core/ecs"
	"github.com/geoscape/server/internal/core/event"
	coresys "github.com/geoscape/server/internal/core/system"
	"github.com/geoscape/server/internal/world"
	"go.uber.org/zap"
)

// DetectionSystem applies radar results and craft losses. Spotted sites and
// sites inside a scanned area become detected; destroyed craft are removed,
// which unlinks any site still pointing at them. Phase 1 (Update).
type DetectionSystem struct {
	world   *world.State
	bus     *event.Bus
	log     *zap.Logger
	spotted []ecs.EntityID
	scans   []event.AreaScanned
	lost    []event.CraftDestroyed
}

func NewDetectionSystem(ws *world.State, bus *event.Bus, log *zap.Logger) *DetectionSystem {
	s := &DetectionSystem{world: ws, bus: bus, log: log}
	event.Subscribe(bus, func(ev event.MissionSiteSpotted) {
		s.spotted = append(s.spotted, ev.Site)
	})
	event.Subscribe(bus, func(ev event.AreaScanned) {
		s.scans = append(s.scans, ev)
	})
	event.Subscribe(bus, func(ev event.CraftDestroyed) {
		s.lost = append(s.lost, ev)
	})
	return s
}

func (s *DetectionSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *DetectionSystem) Update(_ time.Duration) {
	for _, h := range s.spotted {
		if site, ok := s.world.MissionSite(h); ok {
			site.SetDetected(true)
		}
	}
	s.spotted = s.spotted[:0]

	for _, scan := range s.scans {
		for _, site := range s.world.SitesWithin(scan.Lon, scan.Lat, scan.Radius) {
			if site.Detected() {
				continue
			}
			site.SetDetected(true)
			s.log.Debug("mission site detected by scan", zap.Int("site", site.ID()))
			// Re-announced so the journal sees radar detections too.
			event.Emit(s.bus, event.MissionSiteSpotted{Site: site.Handle()})
		}
	}
	s.scans = s.scans[:0]

	for _, ev := range s.lost {
		c, ok := s.world.Craft(ev.Craft)
		if !ok {
			c, ok = s.world.CraftByUniqueID(ev.UniqueID)
		}
		if !ok {
			continue
		}
		c.SetStatus(world.CraftDestroyed)
		s.world.Remove(c.Handle())
		s.log.Info("ufo removed", zap.Int("ufo_unique_id", c.UniqueID()))
	}
	s.lost = s.lost[:0]
}
