package save

import (
	"go.uber.org/zap"

	"github.com/geoscape/server/internal/world"
)

// CraftRegistry finds loaded craft by unique id. *world.State satisfies it.
type CraftRegistry interface {
	CraftByUniqueID(uid int) (*world.Craft, bool)
}

// ResolveCraftLinks turns every pending craft id into a live link. It must
// run after all craft and sites of a save are loaded. A site whose id matches
// no craft is left unlinked and reported with a *DanglingReferenceError;
// resolution continues with the next site.
func ResolveCraftLinks(sites []*world.MissionSite, reg CraftRegistry, log *zap.Logger) []error {
	var errs []error
	for _, site := range sites {
		uid, pending := site.PendingCraftID()
		if !pending {
			continue
		}
		c, ok := reg.CraftByUniqueID(uid)
		if !ok {
			site.UnlinkCraft()
			err := &DanglingReferenceError{SiteID: site.ID(), CraftID: uid}
			errs = append(errs, err)
			if log != nil {
				log.Warn("craft reference dropped",
					zap.Int("site", site.ID()),
					zap.Int("ufo_unique_id", uid))
			}
			continue
		}
		site.LinkCraft(c)
	}
	return errs
}
