package save

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/geoscape/server/internal/world"
)

func TestResolveCraftLinks_ReverseOrderRoundTrip(t *testing.T) {
	cat := testCatalogue(t)
	mission, deploy := mustRules(t, cat, "STR_ALIEN_TERROR", "STR_TERROR_MISSION")

	// Session one: a site linked to craft 42, each saved on its own.
	before := world.NewState()
	craft := mustCraft(t, cat, "STR_BATTLESHIP", 42)
	_, err := before.AddCraft(craft)
	require.NoError(t, err)
	site := world.NewMissionSite(mission, deploy, nil)
	site.LinkCraft(craft)
	before.AddMissionSite(site)

	craftRaw, err := yaml.Marshal(EncodeCraft(craft))
	require.NoError(t, err)
	siteRaw, err := yaml.Marshal(EncodeMissionSite(site))
	require.NoError(t, err)

	// Session two: the site is read before the craft exists.
	after := world.NewState()
	reSite, err := DecodeMissionSite(parseNode(t, string(siteRaw)), cat)
	require.NoError(t, err)
	reCraft, err := DecodeCraft(parseNode(t, string(craftRaw)), cat)
	require.NoError(t, err)
	_, err = after.AddCraft(reCraft)
	require.NoError(t, err)
	after.AddMissionSite(reSite)

	errs := ResolveCraftLinks(after.MissionSites(), after, zap.NewNop())
	assert.Empty(t, errs)

	linked, ok := after.LinkedCraft(reSite)
	require.True(t, ok)
	assert.Same(t, reCraft, linked)

	d, err := Wrap(EncodeMissionSite(reSite))
	require.NoError(t, err)
	uid, err := need[int](d, keyUfoUniqueID)
	require.NoError(t, err)
	assert.Equal(t, 42, uid)
}

func TestResolveCraftLinks_Dangling(t *testing.T) {
	cat := testCatalogue(t)
	site, err := DecodeMissionSite(parseNode(t, `
id: 7
type: STR_ALIEN_TERROR
deployment: STR_TERROR_MISSION
ufoUniqueId: 99
`), cat)
	require.NoError(t, err)

	reg := world.NewState()
	var errs []error
	require.NotPanics(t, func() {
		errs = ResolveCraftLinks([]*world.MissionSite{site}, reg, nil)
	})
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrDanglingReference))

	var dr *DanglingReferenceError
	require.True(t, errors.As(errs[0], &dr))
	assert.Equal(t, 7, dr.SiteID)
	assert.Equal(t, 99, dr.CraftID)

	_, pending := site.PendingCraftID()
	assert.False(t, pending)
	_, live := site.CraftUniqueID()
	assert.False(t, live)
}

func TestResolveCraftLinks_CraftDestroyedBeforeResolution(t *testing.T) {
	cat := testCatalogue(t)
	mission, deploy := mustRules(t, cat, "STR_ALIEN_TERROR", "STR_TERROR_MISSION")

	st := world.NewState()
	craft := mustCraft(t, cat, "STR_SCOUT", 5)
	h, err := st.AddCraft(craft)
	require.NoError(t, err)
	site := world.NewMissionSite(mission, deploy, nil)
	site.AwaitCraft(5)
	st.AddMissionSite(site)

	st.Remove(h)
	errs := ResolveCraftLinks(st.MissionSites(), st, zap.NewNop())
	require.Len(t, errs, 1)
	_, live := site.CraftUniqueID()
	assert.False(t, live)
}

func TestResolveCraftLinks_SkipsUnlinkedAndLive(t *testing.T) {
	cat := testCatalogue(t)
	mission, deploy := mustRules(t, cat, "STR_ALIEN_TERROR", "STR_TERROR_MISSION")

	st := world.NewState()
	craft := mustCraft(t, cat, "STR_SCOUT", 3)
	_, err := st.AddCraft(craft)
	require.NoError(t, err)

	plain := world.NewMissionSite(mission, deploy, nil)
	live := world.NewMissionSite(mission, deploy, nil)
	live.LinkCraft(craft)

	errs := ResolveCraftLinks([]*world.MissionSite{plain, live}, st, zap.NewNop())
	assert.Empty(t, errs)
	assert.True(t, plain.CraftHandle().IsZero())
	assert.Equal(t, craft.Handle(), live.CraftHandle())
}
