package save

import (
	"gopkg.in/yaml.v3"

	"github.com/geoscape/server/internal/world"
)

const (
	keyUniqueID = "uniqueId"
	keyStatus   = "status"
)

// EncodeCraft writes an alien craft. Only the fields mission sites and the
// globe need are kept; flight paths are not persisted.
func EncodeCraft(c *world.Craft) *yaml.Node {
	d := NewDocument()
	encodeTarget(d, c)
	d.SetString(keyType, c.Type())
	d.SetInt(keyUniqueID, c.UniqueID())
	if c.Status() != world.CraftFlying {
		d.SetString(keyStatus, c.Status().String())
	}
	d.SetBool(keyDetected, c.Detected())
	return d.Node()
}

// DecodeCraft rebuilds a craft. uniqueId is required and must be positive.
func DecodeCraft(n *yaml.Node, rules RuleLookup) (*world.Craft, error) {
	d, err := Wrap(n)
	if err != nil {
		return nil, err
	}
	typeKey, err := need[string](d, keyType)
	if err != nil {
		return nil, err
	}
	uid, err := need[int](d, keyUniqueID)
	if err != nil {
		return nil, err
	}
	if uid <= 0 {
		return nil, malformed(keyUniqueID, "must be positive, got %d", uid)
	}
	status, err := read[string](d, keyStatus)
	if err != nil {
		return nil, err
	}
	detected, err := read[bool](d, keyDetected)
	if err != nil {
		return nil, err
	}

	rule, ok := rules.Ufo(typeKey)
	if !ok {
		return nil, &MissingRuleError{Kind: "ufo", Key: typeKey}
	}
	c := world.NewCraft(rule, uid)
	if err := decodeTarget(d, c); err != nil {
		return nil, err
	}
	if status.present {
		st, ok := world.ParseCraftStatus(status.value)
		if !ok {
			return nil, malformed(keyStatus, "unknown status %q", status.value)
		}
		c.SetStatus(st)
	}
	c.SetDetected(detected.or(c.Detected()))
	return c, nil
}
