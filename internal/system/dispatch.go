package system

import (
	"time"

	"github.com/geoscape/server/internal/core/event"
	coresys "github.com/geoscape/server/internal/core/system"
)

// EventSystem publishes last tick's events to their subscribers.
// Phase 0 (Events); register it before any other system.
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
