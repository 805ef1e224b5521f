package save

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/geoscape/server/internal/data"
	"github.com/geoscape/server/internal/world"
)

func testCatalogue(t *testing.T) *data.Catalogue {
	t.Helper()
	cat, err := data.NewCatalogue(
		[]data.MissionRule{
			{Type: "STR_ALIEN_TERROR", Points: 100, Objective: "site"},
			{Type: "STR_ALIEN_ARTIFACT", Points: 50, Objective: "site"},
		},
		[]data.DeploymentRule{
			{Type: "STR_TERROR_MISSION", MarkerName: "STR_TERROR_SITE", MarkerIcon: data.NoMarkerIcon, DurationMin: 12, DurationMax: 24, Textures: []int{4, 5}},
			{Type: "STR_ARTIFACT_SITE_P1", MarkerName: "STR_ARTIFACT_SITE", MarkerIcon: 9, DurationMin: 24, DurationMax: 48},
			{Type: "STR_SECTOID_ROSTER", MarkerName: "STR_TERROR_SITE", MarkerIcon: data.NoMarkerIcon},
		},
		[]data.UfoRule{
			{Type: "STR_BATTLESHIP", Size: "STR_VERY_LARGE", Speed: 5000, Score: 700},
			{Type: "STR_SCOUT", Size: "STR_SMALL", Speed: 2200, Score: 50},
		},
	)
	require.NoError(t, err)
	return cat
}

func mustRules(t *testing.T, cat *data.Catalogue, mission, deployment string) (*data.MissionRule, *data.DeploymentRule) {
	t.Helper()
	m, ok := cat.Mission(mission)
	require.True(t, ok, mission)
	d, ok := cat.Deployment(deployment)
	require.True(t, ok, deployment)
	return m, d
}

func mustCraft(t *testing.T, cat *data.Catalogue, ufo string, uid int) *world.Craft {
	t.Helper()
	r, ok := cat.Ufo(ufo)
	require.True(t, ok, ufo)
	return world.NewCraft(r, uid)
}

// parseNode reads YAML text into a node the way a save file is read.
func parseNode(t *testing.T, text string) *yaml.Node {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(text), &n))
	return &n
}

// reparse pushes a node through text so tests see what a reader would.
func reparse(t *testing.T, n *yaml.Node) *yaml.Node {
	t.Helper()
	raw, err := yaml.Marshal(n)
	require.NoError(t, err)
	return parseNode(t, string(raw))
}
