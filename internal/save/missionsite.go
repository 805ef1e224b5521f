package save

import (
	"gopkg.in/yaml.v3"

	"github.com/geoscape/server/internal/world"
)

// Mission site keys.
const (
	keyType          = "type"
	keyDeployment    = "deployment"
	keyCustomDeploy  = "missionCustomDeploy"
	keyTexture       = "texture"
	keySeconds       = "secondsRemaining"
	keyRace          = "race"
	keyInBattlescape = "inBattlescape"
	keyDetected      = "detected"
	keyCity          = "city"
	keyUfoUniqueID   = "ufoUniqueId"
)

// EncodeMissionSite writes a site as a mapping. Default-valued optional
// fields are left out; texture and detected are always written. The craft
// link is stored as ufoUniqueId only while it is live.
func EncodeMissionSite(s *world.MissionSite) *yaml.Node {
	d := NewDocument()
	encodeTarget(d, s)
	d.SetString(keyType, s.Rules().Type)
	d.SetString(keyDeployment, s.Deployment().Type)
	if c := s.CustomDeploy(); c != nil {
		d.SetString(keyCustomDeploy, c.Type)
	}
	d.SetInt(keyTexture, s.Texture())
	if s.SecondsRemaining() != 0 {
		d.SetInt(keySeconds, s.SecondsRemaining())
	}
	if s.AlienRace() != "" {
		d.SetString(keyRace, s.AlienRace())
	}
	if s.InBattlescape() {
		d.SetBool(keyInBattlescape, true)
	}
	d.SetBool(keyDetected, s.Detected())
	if s.City() != "" {
		d.SetString(keyCity, s.City())
	}
	if id, ok := s.CraftUniqueID(); ok {
		d.SetInt(keyUfoUniqueID, id)
	}
	return d.Node()
}

// DecodeMissionSite rebuilds a site. Rule keys are resolved through rules;
// an unknown key fails with *MissingRuleError. Absent optional fields take
// the values a freshly constructed site has. A stored ufoUniqueId is kept as
// a pending link for ResolveCraftLinks.
func DecodeMissionSite(n *yaml.Node, rules RuleLookup) (*world.MissionSite, error) {
	d, err := Wrap(n)
	if err != nil {
		return nil, err
	}

	typeKey, err := need[string](d, keyType)
	if err != nil {
		return nil, err
	}
	deployKey, err := need[string](d, keyDeployment)
	if err != nil {
		return nil, err
	}
	customKey, err := read[string](d, keyCustomDeploy)
	if err != nil {
		return nil, err
	}

	mission, ok := rules.Mission(typeKey)
	if !ok {
		return nil, &MissingRuleError{Kind: "mission", Key: typeKey}
	}
	deployment, ok := rules.Deployment(deployKey)
	if !ok {
		return nil, &MissingRuleError{Kind: "deployment", Key: deployKey}
	}
	site := world.NewMissionSite(mission, deployment, nil)
	if customKey.present && customKey.value != "" {
		custom, ok := rules.Deployment(customKey.value)
		if !ok {
			return nil, &MissingRuleError{Kind: "deployment", Key: customKey.value}
		}
		site = world.NewMissionSite(mission, deployment, custom)
	}

	if err := decodeTarget(d, site); err != nil {
		return nil, err
	}

	texture, err := read[int](d, keyTexture)
	if err != nil {
		return nil, err
	}
	seconds, err := read[int](d, keySeconds)
	if err != nil {
		return nil, err
	}
	if seconds.value < 0 {
		return nil, malformed(keySeconds, "negative countdown %d", seconds.value)
	}
	race, err := read[string](d, keyRace)
	if err != nil {
		return nil, err
	}
	inBattle, err := read[bool](d, keyInBattlescape)
	if err != nil {
		return nil, err
	}
	detected, err := read[bool](d, keyDetected)
	if err != nil {
		return nil, err
	}
	city, err := read[string](d, keyCity)
	if err != nil {
		return nil, err
	}
	ufoID, err := read[int](d, keyUfoUniqueID)
	if err != nil {
		return nil, err
	}

	site.SetTexture(texture.or(site.Texture()))
	site.SetSecondsRemaining(seconds.or(site.SecondsRemaining()))
	site.SetAlienRace(race.or(site.AlienRace()))
	if inBattle.or(site.InBattlescape()) {
		site.EnterBattlescape()
	}
	site.SetDetected(detected.or(site.Detected()))
	site.SetCity(city.or(site.City()))
	if id := ufoID.or(world.NoCraftID); id > 0 {
		site.AwaitCraft(id)
	}
	return site, nil
}
