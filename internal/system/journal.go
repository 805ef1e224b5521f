package system

import (
	"context"
	"time"

	"github.com/geoscape/server/internal/core/ecs"
	"github.com/geoscape/server/internal/core/event"
	coresys "github.com/geoscape/server/internal/core/system"
	"github.com/geoscape/server/internal/persist"
	"github.com/geoscape/server/internal/world"
	"go.uber.org/zap"
)

// JournalWriter stores a batch of journal entries atomically.
// *persist.JournalRepo implements it.
type JournalWriter interface {
	Write(ctx context.Context, entries []persist.JournalEntry) error
}

// maxJournalBacklog bounds the entries kept while the database is down.
const maxJournalBacklog = 4096

// JournalSystem records lifecycle events and writes them out once per tick
// in a single transaction. A failed batch is retried next tick.
// Phase 3 (Persist).
type JournalSystem struct {
	world   *world.State
	writer  JournalWriter
	log     *zap.Logger
	pending []persist.JournalEntry
}

func NewJournalSystem(ws *world.State, bus *event.Bus, writer JournalWriter, log *zap.Logger) *JournalSystem {
	s := &JournalSystem{world: ws, writer: writer, log: log}
	event.Subscribe(bus, func(ev event.MissionSiteSpawned) {
		s.recordSite(persist.JournalSpawned, ev.Site, ev.Deployment)
	})
	event.Subscribe(bus, func(ev event.MissionSiteSpotted) {
		s.recordSite(persist.JournalSpotted, ev.Site, "")
	})
	event.Subscribe(bus, func(ev event.BattleStarted) {
		s.recordSite(persist.JournalBattle, ev.Site, "")
	})
	event.Subscribe(bus, func(ev event.BattleResolved) {
		detail := "failure"
		if ev.Success {
			detail = "success"
		}
		s.recordSite(persist.JournalResolved, ev.Site, detail)
	})
	event.Subscribe(bus, func(ev event.MissionSiteExpired) {
		s.add(persist.JournalEntry{
			Kind:     persist.JournalExpired,
			SiteID:   ev.SiteID,
			SiteType: ev.TypeName,
		})
	})
	event.Subscribe(bus, func(ev event.CraftDestroyed) {
		s.add(persist.JournalEntry{Kind: persist.JournalUfoLost, CraftID: ev.UniqueID})
	})
	return s
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) recordSite(kind string, h ecs.EntityID, detail string) {
	e := persist.JournalEntry{Kind: kind, Detail: detail}
	if site, ok := s.world.MissionSite(h); ok {
		e.SiteID = site.ID()
		e.SiteType = site.Type()
		if uid, linked := site.CraftUniqueID(); linked {
			e.CraftID = uid
		}
	}
	s.add(e)
}

func (s *JournalSystem) add(e persist.JournalEntry) {
	e.GameTime = s.world.Elapsed()
	if len(s.pending) >= maxJournalBacklog {
		s.pending = s.pending[1:]
	}
	s.pending = append(s.pending, e)
}

// Pending returns how many entries wait to be written.
func (s *JournalSystem) Pending() int { return len(s.pending) }

func (s *JournalSystem) Update(_ time.Duration) {
	s.Flush()
}

// Flush writes all pending entries now. Called every tick and at shutdown.
func (s *JournalSystem) Flush() {
	if len(s.pending) == 0 || s.writer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writer.Write(ctx, s.pending); err != nil {
		s.log.Error("journal write failed", zap.Int("entries", len(s.pending)), zap.Error(err))
		return
	}
	s.pending = s.pending[:0]
}
