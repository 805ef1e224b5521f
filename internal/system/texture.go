package system

import (
	"time"

	coresys "github.com/geoscape/server/internal/core/system"
	"github.com/geoscape/server/internal/scripting"
	"github.com/geoscape/server/internal/world"
	"go.uber.org/zap"
)

// TexturePicker chooses a terrain set for a site. *scripting.Engine
// implements it through the pick_site_texture hook.
type TexturePicker interface {
	PickTexture(ctx scripting.TextureContext) (int, bool)
}

// TextureSystem gives every site still at world.NoTexture a concrete
// terrain set before anything renders it. Phase 2 (PostUpdate).
type TextureSystem struct {
	world  *world.State
	picker TexturePicker // nil = fallback only
	log    *zap.Logger
}

func NewTextureSystem(ws *world.State, picker TexturePicker, log *zap.Logger) *TextureSystem {
	return &TextureSystem{world: ws, picker: picker, log: log}
}

func (s *TextureSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *TextureSystem) Update(_ time.Duration) {
	for _, site := range s.world.MissionSites() {
		if site.Texture() != world.NoTexture {
			continue
		}
		tex := s.pick(site)
		site.SetTexture(tex)
		s.log.Debug("mission site texture assigned",
			zap.Int("site", site.ID()),
			zap.Int("texture", tex))
	}
}

// pick asks the script first, then falls back to the deployment's first
// candidate, then to 0.
func (s *TextureSystem) pick(site *world.MissionSite) int {
	dep := site.Deployment()
	if s.picker != nil {
		if tex, ok := s.picker.PickTexture(scripting.TextureContext{
			Mission:    site.Rules().Type,
			Deployment: dep.Type,
			Lon:        site.Lon(),
			Lat:        site.Lat(),
			City:       site.City(),
			Race:       site.AlienRace(),
			Textures:   dep.Textures,
		}); ok {
			return tex
		}
	}
	if len(dep.Textures) > 0 {
		return dep.Textures[0]
	}
	return 0
}
