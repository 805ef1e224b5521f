package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadCatalogue(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "missions.yaml", `
missions:
  - type: STR_ALIEN_TERROR
    points: 50
    objective: site
    spawnUfo: STR_TERROR_SHIP
    siteDeployment: STR_TERROR_MISSION
`)
	writeFile(t, dir, "deployments.yaml", `
deployments:
  - type: STR_TERROR_MISSION
    markerName: STR_TERROR_SITE
    durationMin: 3
    durationMax: 6
    textures: [2, 3]
  - type: STR_ARTIFACT_SITE_P1
    markerName: STR_ARTIFACT_SITE
    markerIcon: 9
`)
	writeFile(t, dir, "ufos.yaml", `
ufos:
  - type: STR_TERROR_SHIP
    size: STR_VERY_LARGE
    speed: 1200
`)

	c, err := LoadCatalogue(dir)
	require.NoError(t, err)

	m, d, u := c.Counts()
	assert.Equal(t, 1, m)
	assert.Equal(t, 2, d)
	assert.Equal(t, 1, u)

	terror, ok := c.Deployment("STR_TERROR_MISSION")
	require.True(t, ok)
	assert.Equal(t, NoMarkerIcon, terror.MarkerIcon, "absent markerIcon reads as no icon")
	assert.False(t, terror.HasMarkerIcon())
	assert.Equal(t, []int{2, 3}, terror.Textures)

	artifact, ok := c.Deployment("STR_ARTIFACT_SITE_P1")
	require.True(t, ok)
	assert.Equal(t, 9, artifact.MarkerIcon)
	assert.True(t, artifact.HasMarkerIcon())

	mission, ok := c.Mission("STR_ALIEN_TERROR")
	require.True(t, ok)
	assert.Equal(t, "STR_TERROR_SHIP", mission.SpawnUfo)
	assert.Equal(t, "STR_TERROR_MISSION", mission.SiteDeployment)

	_, ok = c.Ufo("STR_NOPE")
	assert.False(t, ok)
}

func TestLoadCatalogue_MissingFile(t *testing.T) {
	_, err := LoadCatalogue(t.TempDir())
	assert.ErrorContains(t, err, "mission list")
}

func TestNewCatalogue_RejectsBadRules(t *testing.T) {
	_, err := NewCatalogue([]MissionRule{{Type: "A"}, {Type: "A"}}, nil, nil)
	assert.ErrorContains(t, err, "duplicate mission rule")

	_, err = NewCatalogue(nil, []DeploymentRule{{Type: ""}}, nil)
	assert.ErrorContains(t, err, "without type")

	_, err = NewCatalogue(nil, []DeploymentRule{{Type: "D", DurationMin: 5, DurationMax: 2}}, nil)
	assert.ErrorContains(t, err, "durationMax")
}

func TestNewCatalogue_CrossReferences(t *testing.T) {
	deployments := []DeploymentRule{{Type: "STR_TERROR_MISSION", MarkerIcon: NoMarkerIcon}}

	_, err := NewCatalogue([]MissionRule{{Type: "STR_ALIEN_TERROR", SiteDeployment: "STR_GONE"}}, deployments, nil)
	assert.ErrorContains(t, err, "unknown siteDeployment")

	_, err = NewCatalogue([]MissionRule{{Type: "STR_ALIEN_TERROR", SpawnUfo: "STR_GONE"}}, deployments, nil)
	assert.ErrorContains(t, err, "unknown spawnUfo")
}

func TestCatalogue_SiteMissions(t *testing.T) {
	c, err := NewCatalogue(
		[]MissionRule{
			{Type: "STR_ALIEN_TERROR", SiteDeployment: "STR_TERROR_MISSION"},
			{Type: "STR_ALIEN_RESEARCH"},
			{Type: "STR_ALIEN_ARTIFACT", SiteDeployment: "STR_TERROR_MISSION"},
		},
		[]DeploymentRule{{Type: "STR_TERROR_MISSION", MarkerIcon: NoMarkerIcon}},
		nil,
	)
	require.NoError(t, err)

	got := c.SiteMissions()
	require.Len(t, got, 2)
	assert.Equal(t, "STR_ALIEN_ARTIFACT", got[0].Type)
	assert.Equal(t, "STR_ALIEN_TERROR", got[1].Type)
}
