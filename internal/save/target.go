package save

import (
	"github.com/geoscape/server/internal/data"
	"github.com/geoscape/server/internal/world"
)

// RuleLookup resolves the rule keys stored in a save. *data.Catalogue
// satisfies it.
type RuleLookup interface {
	Mission(key string) (*data.MissionRule, bool)
	Deployment(key string) (*data.DeploymentRule, bool)
	Ufo(key string) (*data.UfoRule, bool)
}

// encodeTarget writes the spatial fields every globe entity shares.
func encodeTarget(d *Document, e world.Entity) {
	t := e.Base()
	d.SetFloat("lon", t.Lon())
	d.SetFloat("lat", t.Lat())
	if t.ID() != 0 {
		d.SetInt("id", t.ID())
	}
	if t.Name() != "" {
		d.SetString("name", t.Name())
	}
}

func decodeTarget(d *Document, e world.Entity) error {
	t := e.Base()
	lon, err := read[float64](d, "lon")
	if err != nil {
		return err
	}
	lat, err := read[float64](d, "lat")
	if err != nil {
		return err
	}
	id, err := read[int](d, "id")
	if err != nil {
		return err
	}
	if id.value < 0 {
		return malformed("id", "negative id %d", id.value)
	}
	name, err := read[string](d, "name")
	if err != nil {
		return err
	}
	t.SetPosition(lon.or(t.Lon()), lat.or(t.Lat()))
	t.SetID(id.or(t.ID()))
	t.SetName(name.or(t.Name()))
	return nil
}
