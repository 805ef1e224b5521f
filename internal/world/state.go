package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/geoscape/server/internal/core/ecs"
)

// ErrDuplicateCraft is returned when a craft unique id is already in use.
var ErrDuplicateCraft = errors.New("duplicate craft unique id")

// State tracks every mission site and alien craft on the globe.
// Single-goroutine access only (game loop).
type State struct {
	arena  *ecs.World
	sites  *ecs.Store[MissionSite]
	crafts *ecs.Store[Craft]
	grid   *GlobeGrid

	byUniqueID map[int]ecs.EntityID // craft unique id → handle

	lastSiteID   int
	lastCraftUID int

	elapsed int64 // campaign seconds
}

func NewState() *State {
	s := &State{
		arena:      ecs.NewWorld(),
		sites:      ecs.NewStore[MissionSite](),
		crafts:     ecs.NewStore[Craft](),
		grid:       NewGlobeGrid(),
		byUniqueID: make(map[int]ecs.EntityID),
	}
	s.arena.Registry().Register(s.sites, s.crafts)
	s.arena.OnDestroy(s.beforeDestroy)
	return s
}

// beforeDestroy drops index entries and any site links into a dying craft.
func (s *State) beforeDestroy(id ecs.EntityID) {
	if site, ok := s.sites.Get(id); ok {
		s.grid.Remove(id, site.lon, site.lat)
		return
	}
	c, ok := s.crafts.Get(id)
	if !ok {
		return
	}
	delete(s.byUniqueID, c.uniqueID)
	s.sites.Each(func(_ ecs.EntityID, site *MissionSite) {
		if site.CraftHandle() == id {
			site.UnlinkCraft()
		}
	})
}

// AddMissionSite registers a site and returns its handle. A site without an
// id gets the next free one; a loaded id advances the counter past itself.
func (s *State) AddMissionSite(site *MissionSite) ecs.EntityID {
	if site.id == 0 {
		s.lastSiteID++
		site.id = s.lastSiteID
	} else if site.id > s.lastSiteID {
		s.lastSiteID = site.id
	}
	id := s.arena.CreateEntity()
	site.handle = id
	s.sites.Set(id, site)
	s.grid.Add(id, site.lon, site.lat)
	return id
}

// AddCraft registers a craft. Unique id 0 is replaced with the next free one.
func (s *State) AddCraft(c *Craft) (ecs.EntityID, error) {
	if c.uniqueID == 0 {
		c.uniqueID = s.NextCraftUniqueID()
	}
	if _, dup := s.byUniqueID[c.uniqueID]; dup {
		return 0, fmt.Errorf("%w: %d", ErrDuplicateCraft, c.uniqueID)
	}
	if c.uniqueID > s.lastCraftUID {
		s.lastCraftUID = c.uniqueID
	}
	id := s.arena.CreateEntity()
	c.handle = id
	s.crafts.Set(id, c)
	s.byUniqueID[c.uniqueID] = id
	return id, nil
}

// NextCraftUniqueID reserves a craft unique id.
func (s *State) NextCraftUniqueID() int {
	s.lastCraftUID++
	return s.lastCraftUID
}

// MissionSite returns the live site for a handle.
func (s *State) MissionSite(id ecs.EntityID) (*MissionSite, bool) {
	if !s.arena.Alive(id) {
		return nil, false
	}
	return s.sites.Get(id)
}

// Craft returns the live craft for a handle. Stale handles miss.
func (s *State) Craft(id ecs.EntityID) (*Craft, bool) {
	if !s.arena.Alive(id) {
		return nil, false
	}
	return s.crafts.Get(id)
}

// CraftByUniqueID finds a live craft by its stable id.
func (s *State) CraftByUniqueID(uid int) (*Craft, bool) {
	id, ok := s.byUniqueID[uid]
	if !ok {
		return nil, false
	}
	return s.Craft(id)
}

// LinkedCraft follows a site's craft link. Returns false when unlinked or
// the craft is gone.
func (s *State) LinkedCraft(site *MissionSite) (*Craft, bool) {
	h := site.CraftHandle()
	if h.IsZero() {
		return nil, false
	}
	return s.Craft(h)
}

// MissionSites returns every site in handle order.
func (s *State) MissionSites() []*MissionSite {
	out := make([]*MissionSite, 0, s.sites.Len())
	s.sites.Each(func(_ ecs.EntityID, site *MissionSite) { out = append(out, site) })
	return out
}

// Crafts returns every craft in handle order.
func (s *State) Crafts() []*Craft {
	out := make([]*Craft, 0, s.crafts.Len())
	s.crafts.Each(func(_ ecs.EntityID, c *Craft) { out = append(out, c) })
	return out
}

// SitesWithin returns sites whose great-circle distance to the point is at
// most radius radians, in handle order.
func (s *State) SitesWithin(lon, lat, radius float64) []*MissionSite {
	var out []*MissionSite
	for _, id := range s.grid.Candidates(lon, lat, radius) {
		site, ok := s.sites.Get(id)
		if ok && site.Distance(lon, lat) <= radius {
			out = append(out, site)
		}
	}
	sortByHandle(out)
	return out
}

// RelocateSite moves a site and keeps the area index current.
func (s *State) RelocateSite(site *MissionSite, lon, lat float64) {
	if !site.handle.IsZero() {
		s.grid.Move(site.handle, site.lon, site.lat, lon, lat)
	}
	site.SetPosition(lon, lat)
}

// MarkForDestruction queues a site or craft for removal at tick end.
func (s *State) MarkForDestruction(id ecs.EntityID) {
	s.arena.MarkForDestruction(id)
}

// PendingDestruction reports whether a handle is queued for removal.
func (s *State) PendingDestruction(id ecs.EntityID) bool {
	return s.arena.PendingDestruction(id)
}

// FlushDestroyed removes everything queued by MarkForDestruction.
func (s *State) FlushDestroyed() int {
	return s.arena.FlushDestroyQueue()
}

// Remove deletes a site or craft immediately. Sites linked to a removed
// craft lose their link.
func (s *State) Remove(id ecs.EntityID) {
	s.arena.Destroy(id)
}

func (s *State) SiteCount() int  { return s.sites.Len() }
func (s *State) CraftCount() int { return s.crafts.Len() }

// Counters returns the last issued site id and craft unique id.
func (s *State) Counters() (siteID, craftUID int) {
	return s.lastSiteID, s.lastCraftUID
}

// RestoreCounters raises the id counters, never lowering them.
func (s *State) RestoreCounters(siteID, craftUID int) {
	if siteID > s.lastSiteID {
		s.lastSiteID = siteID
	}
	if craftUID > s.lastCraftUID {
		s.lastCraftUID = craftUID
	}
}

// Elapsed returns campaign time in seconds.
func (s *State) Elapsed() int64 { return s.elapsed }

// Advance moves campaign time forward. Negative steps are ignored.
func (s *State) Advance(seconds int) {
	if seconds > 0 {
		s.elapsed += int64(seconds)
	}
}

// SetElapsed restores campaign time from a save.
func (s *State) SetElapsed(seconds int64) { s.elapsed = seconds }

func sortByHandle(sites []*MissionSite) {
	sort.Slice(sites, func(i, j int) bool { return sites[i].handle < sites[j].handle })
}
