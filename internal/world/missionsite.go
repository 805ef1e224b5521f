package world

import (
	"golang.org/x/text/unicode/norm"

	"github.com/geoscape/server/internal/core/ecs"
	"github.com/geoscape/server/internal/data"
)

const (
	// DefaultSiteMarker is drawn for detected sites whose deployment has no icon.
	DefaultSiteMarker = 5
	// NoTexture means the terrain set has not been picked yet.
	NoTexture = -1
	// NoCraftID is the unset craft unique id.
	NoCraftID = -1
)

// craftLink is a non-owning view of the craft that spawned a site.
// handle != 0: live link, uniqueID mirrors the craft's id.
// handle == 0 && uniqueID != NoCraftID: id read from a save, not resolved yet.
type craftLink struct {
	handle   ecs.EntityID
	uniqueID int
}

// MissionSite is a globe location spawned by an alien mission. It counts
// down to expiry, can be spotted, and is handed to the battlescape when
// troops land there.
// Accessed only from the game loop goroutine, no locks.
type MissionSite struct {
	Target

	rules        *data.MissionRule
	deployment   *data.DeploymentRule
	customDeploy *data.DeploymentRule // nil = deployment's own roster

	texture          int
	secondsRemaining int // 0 = no expiry scheduled
	race             string
	inBattlescape    bool
	detected         bool
	city             string
	craft            craftLink
}

// NewMissionSite creates a site from its mission and deployment rules.
// customDeploy may be nil. Passing a nil mission or deployment panics.
func NewMissionSite(mission *data.MissionRule, deployment, customDeploy *data.DeploymentRule) *MissionSite {
	if mission == nil {
		panic("world: NewMissionSite called without mission rule")
	}
	if deployment == nil {
		panic("world: NewMissionSite called without deployment rule")
	}
	return &MissionSite{
		rules:        mission,
		deployment:   deployment,
		customDeploy: customDeploy,
		texture:      NoTexture,
		craft:        craftLink{uniqueID: NoCraftID},
	}
}

func (s *MissionSite) Rules() *data.MissionRule           { return s.rules }
func (s *MissionSite) Deployment() *data.DeploymentRule   { return s.deployment }
func (s *MissionSite) CustomDeploy() *data.DeploymentRule { return s.customDeploy }

// Type is the site's marker name, used as its type in saves and journals.
func (s *MissionSite) Type() string { return s.deployment.MarkerName }

func (s *MissionSite) MarkerName() string { return s.Type() }

// Marker returns the globe icon: NoMarker while undetected, otherwise the
// deployment's icon, or DefaultSiteMarker when the deployment has none.
func (s *MissionSite) Marker() int {
	if !s.detected {
		return NoMarker
	}
	if !s.deployment.HasMarkerIcon() {
		return DefaultSiteMarker
	}
	return s.deployment.MarkerIcon
}

func (s *MissionSite) SecondsRemaining() int { return s.secondsRemaining }

// SetSecondsRemaining sets the countdown. Negative values clamp to zero.
func (s *MissionSite) SetSecondsRemaining(seconds int) {
	if seconds < 0 {
		seconds = 0
	}
	s.secondsRemaining = seconds
}

// AlienRace is the faction holding the site, "" if unset.
func (s *MissionSite) AlienRace() string { return s.race }

func (s *MissionSite) SetAlienRace(race string) {
	s.race = norm.NFC.String(race)
}

// InBattlescape reports whether troops have engaged at the site.
func (s *MissionSite) InBattlescape() bool { return s.inBattlescape }

// EnterBattlescape marks the site as engaged. There is no way back.
func (s *MissionSite) EnterBattlescape() { s.inBattlescape = true }

func (s *MissionSite) Texture() int { return s.texture }

func (s *MissionSite) SetTexture(texture int) { s.texture = texture }

// City is the settlement the site is bound to, "" if none.
func (s *MissionSite) City() string { return s.city }

func (s *MissionSite) SetCity(city string) {
	s.city = norm.NFC.String(city)
}

func (s *MissionSite) Detected() bool { return s.detected }

func (s *MissionSite) SetDetected(detected bool) { s.detected = detected }

// LinkCraft installs a live link to c. A nil craft clears the link.
func (s *MissionSite) LinkCraft(c *Craft) {
	if c == nil {
		s.UnlinkCraft()
		return
	}
	s.craft = craftLink{handle: c.Handle(), uniqueID: c.UniqueID()}
}

// AwaitCraft records a craft id read from a save; the resolver turns it into
// a live link once every craft is loaded. NoCraftID clears the link.
func (s *MissionSite) AwaitCraft(uniqueID int) {
	s.craft = craftLink{uniqueID: uniqueID}
}

func (s *MissionSite) UnlinkCraft() {
	s.craft = craftLink{uniqueID: NoCraftID}
}

// CraftHandle returns the live craft handle, zero when not linked.
func (s *MissionSite) CraftHandle() ecs.EntityID { return s.craft.handle }

// CraftUniqueID returns the linked craft's id, only while a live link exists.
func (s *MissionSite) CraftUniqueID() (int, bool) {
	if s.craft.handle.IsZero() {
		return NoCraftID, false
	}
	return s.craft.uniqueID, true
}

// PendingCraftID returns an id awaiting resolution.
func (s *MissionSite) PendingCraftID() (int, bool) {
	if !s.craft.handle.IsZero() || s.craft.uniqueID == NoCraftID {
		return NoCraftID, false
	}
	return s.craft.uniqueID, true
}
