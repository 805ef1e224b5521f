package world

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deg(d float64) float64 { return d * math.Pi / 180 }

func TestState_AddMissionSiteAssignsIDs(t *testing.T) {
	st := NewState()
	a := NewMissionSite(terrorMission, terrorDeploy, nil)
	b := NewMissionSite(terrorMission, terrorDeploy, nil)
	b.SetID(10)
	c := NewMissionSite(terrorMission, terrorDeploy, nil)

	st.AddMissionSite(a)
	st.AddMissionSite(b)
	h := st.AddMissionSite(c)

	assert.Equal(t, 1, a.ID())
	assert.Equal(t, 10, b.ID())
	assert.Equal(t, 11, c.ID())
	got, ok := st.MissionSite(h)
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, []*MissionSite{a, b, c}, st.MissionSites())
}

func TestState_AddCraftRejectsDuplicateUniqueID(t *testing.T) {
	st := NewState()
	_, err := st.AddCraft(NewCraft(battleship, 7))
	require.NoError(t, err)

	_, err = st.AddCraft(NewCraft(battleship, 7))
	assert.ErrorIs(t, err, ErrDuplicateCraft)

	auto := NewCraft(battleship, 0)
	_, err = st.AddCraft(auto)
	require.NoError(t, err)
	assert.Equal(t, 8, auto.UniqueID())
}

func TestState_RemovingCraftUnlinksSites(t *testing.T) {
	st := NewState()
	c := NewCraft(battleship, 42)
	ch, err := st.AddCraft(c)
	require.NoError(t, err)

	site := NewMissionSite(terrorMission, terrorDeploy, nil)
	st.AddMissionSite(site)
	site.LinkCraft(c)

	linked, ok := st.LinkedCraft(site)
	require.True(t, ok)
	assert.Same(t, c, linked)

	st.MarkForDestruction(ch)
	assert.True(t, st.PendingDestruction(ch))
	assert.Equal(t, 1, st.FlushDestroyed())

	_, ok = st.Craft(ch)
	assert.False(t, ok, "stale handle must miss")
	_, ok = st.CraftByUniqueID(42)
	assert.False(t, ok)
	_, live := site.CraftUniqueID()
	assert.False(t, live)
	assert.Equal(t, 0, st.CraftCount())
}

func TestState_SitesWithin(t *testing.T) {
	st := NewState()
	near := NewMissionSite(terrorMission, terrorDeploy, nil)
	near.SetPosition(deg(2), deg(51))
	wrapped := NewMissionSite(terrorMission, terrorDeploy, nil)
	wrapped.SetPosition(deg(-3), deg(50)) // other side of the 0° meridian
	far := NewMissionSite(terrorMission, terrorDeploy, nil)
	far.SetPosition(deg(140), deg(-35))

	st.AddMissionSite(near)
	st.AddMissionSite(wrapped)
	st.AddMissionSite(far)

	got := st.SitesWithin(0, deg(51), deg(8))
	assert.Equal(t, []*MissionSite{near, wrapped}, got)

	st.RelocateSite(far, deg(1), deg(52))
	got = st.SitesWithin(0, deg(51), deg(8))
	assert.Len(t, got, 3)

	st.Remove(near.Handle())
	got = st.SitesWithin(0, deg(51), deg(8))
	assert.Equal(t, []*MissionSite{wrapped, far}, got)
}

func TestState_SitesWithinNearPole(t *testing.T) {
	st := NewState()
	a := NewMissionSite(terrorMission, terrorDeploy, nil)
	a.SetPosition(deg(10), deg(88))
	b := NewMissionSite(terrorMission, terrorDeploy, nil)
	b.SetPosition(deg(190), deg(88))
	st.AddMissionSite(a)
	st.AddMissionSite(b)

	got := st.SitesWithin(deg(10), deg(88), deg(5))
	assert.Equal(t, []*MissionSite{a, b}, got, "4° across the pole is within 5°")
}

func TestState_RestoreCountersNeverLowers(t *testing.T) {
	st := NewState()
	st.RestoreCounters(5, 9)
	st.RestoreCounters(2, 3)
	site, craft := st.Counters()
	assert.Equal(t, 5, site)
	assert.Equal(t, 9, craft)
	assert.Equal(t, 10, st.NextCraftUniqueID())
}
