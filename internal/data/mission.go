package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NoMarkerIcon is the deployment markerIcon value meaning "rule provides no icon".
const NoMarkerIcon = -1

// MissionRule describes a campaign mission type (terror, infiltration, ...).
type MissionRule struct {
	Type      string `yaml:"type"`
	Points    int    `yaml:"points"`    // score awarded to the aliens per completed wave
	Objective string `yaml:"objective"` // "score", "site", "infiltration", "base", ...
	SpawnUfo  string `yaml:"spawnUfo"`  // ufo rule flown by the mission, "" = none

	// SiteDeployment is the deployment used when the mission places a site
	// on the globe. "" = the mission never spawns sites.
	SiteDeployment string `yaml:"siteDeployment"`
}

// DeploymentRule describes the tactical layout and roster used by a site.
type DeploymentRule struct {
	Type         string `yaml:"type"`
	MarkerName   string `yaml:"markerName"`
	MarkerIcon   int    `yaml:"markerIcon"`  // NoMarkerIcon when absent
	DurationMin  int    `yaml:"durationMin"` // hours
	DurationMax  int    `yaml:"durationMax"` // hours
	Textures     []int  `yaml:"textures"`    // candidate terrain sets, first is the fallback
	AlertMessage string `yaml:"alertMessage"`
	Race         string `yaml:"race"` // default occupying faction, "" = chosen by the mission
}

// UnmarshalYAML fills rule defaults before decoding so absent keys keep them.
func (d *DeploymentRule) UnmarshalYAML(n *yaml.Node) error {
	type plain DeploymentRule
	p := plain{MarkerIcon: NoMarkerIcon}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*d = DeploymentRule(p)
	return nil
}

// HasMarkerIcon reports whether the rule configures its own globe icon.
func (d *DeploymentRule) HasMarkerIcon() bool {
	return d.MarkerIcon != NoMarkerIcon
}

// UfoRule describes a craft type flown by the aliens.
type UfoRule struct {
	Type  string `yaml:"type"`
	Size  string `yaml:"size"`
	Speed int    `yaml:"speed"`
	Score int    `yaml:"score"`
}

type missionListFile struct {
	Missions []MissionRule `yaml:"missions"`
}

type deploymentListFile struct {
	Deployments []DeploymentRule `yaml:"deployments"`
}

type ufoListFile struct {
	Ufos []UfoRule `yaml:"ufos"`
}

// LoadMissionList reads missions.yaml.
func LoadMissionList(path string) ([]MissionRule, error) {
	var f missionListFile
	if err := readYAML(path, &f); err != nil {
		return nil, fmt.Errorf("mission list: %w", err)
	}
	return f.Missions, nil
}

// LoadDeploymentList reads deployments.yaml.
func LoadDeploymentList(path string) ([]DeploymentRule, error) {
	var f deploymentListFile
	if err := readYAML(path, &f); err != nil {
		return nil, fmt.Errorf("deployment list: %w", err)
	}
	return f.Deployments, nil
}

// LoadUfoList reads ufos.yaml.
func LoadUfoList(path string) ([]UfoRule, error) {
	var f ufoListFile
	if err := readYAML(path, &f); err != nil {
		return nil, fmt.Errorf("ufo list: %w", err)
	}
	return f.Ufos, nil
}

func readYAML(path string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
