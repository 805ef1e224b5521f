package system

import (
	"time"

	coresys "github.com/geoscape/server/internal/core/system"
	"github.com/geoscape/server/internal/world"
)

// CleanupSystem flushes the deferred destruction queue at tick end.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	world   *world.State
	removed int
}

func NewCleanupSystem(ws *world.State) *CleanupSystem {
	return &CleanupSystem{world: ws}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.removed += s.world.FlushDestroyed()
}

// Removed returns how many entities have been flushed so far.
func (s *CleanupSystem) Removed() int { return s.removed }
