package data

import (
	"fmt"
	"path/filepath"
	"sort"
)

// Catalogue is the immutable rule set for one session. Rules are handed out
// by pointer and live as long as the catalogue does.
type Catalogue struct {
	missions    map[string]*MissionRule
	deployments map[string]*DeploymentRule
	ufos        map[string]*UfoRule
}

// NewCatalogue indexes the given rules by type key. Empty or duplicate keys
// are rejected.
func NewCatalogue(missions []MissionRule, deployments []DeploymentRule, ufos []UfoRule) (*Catalogue, error) {
	c := &Catalogue{
		missions:    make(map[string]*MissionRule, len(missions)),
		deployments: make(map[string]*DeploymentRule, len(deployments)),
		ufos:        make(map[string]*UfoRule, len(ufos)),
	}
	for i := range missions {
		r := &missions[i]
		if err := checkKey("mission", r.Type, c.missions); err != nil {
			return nil, err
		}
		c.missions[r.Type] = r
	}
	for i := range deployments {
		r := &deployments[i]
		if err := checkKey("deployment", r.Type, c.deployments); err != nil {
			return nil, err
		}
		if r.DurationMax < r.DurationMin {
			return nil, fmt.Errorf("deployment %s: durationMax %d < durationMin %d", r.Type, r.DurationMax, r.DurationMin)
		}
		c.deployments[r.Type] = r
	}
	for i := range ufos {
		r := &ufos[i]
		if err := checkKey("ufo", r.Type, c.ufos); err != nil {
			return nil, err
		}
		c.ufos[r.Type] = r
	}
	for _, m := range c.missions {
		if m.SiteDeployment != "" {
			if _, ok := c.deployments[m.SiteDeployment]; !ok {
				return nil, fmt.Errorf("mission %s: unknown siteDeployment %q", m.Type, m.SiteDeployment)
			}
		}
		if m.SpawnUfo != "" {
			if _, ok := c.ufos[m.SpawnUfo]; !ok {
				return nil, fmt.Errorf("mission %s: unknown spawnUfo %q", m.Type, m.SpawnUfo)
			}
		}
	}
	return c, nil
}

func checkKey[T any](kind, key string, seen map[string]*T) error {
	if key == "" {
		return fmt.Errorf("%s rule without type", kind)
	}
	if _, dup := seen[key]; dup {
		return fmt.Errorf("duplicate %s rule %q", kind, key)
	}
	return nil
}

// LoadCatalogue loads missions.yaml, deployments.yaml and ufos.yaml from dir.
func LoadCatalogue(dir string) (*Catalogue, error) {
	missions, err := LoadMissionList(filepath.Join(dir, "missions.yaml"))
	if err != nil {
		return nil, err
	}
	deployments, err := LoadDeploymentList(filepath.Join(dir, "deployments.yaml"))
	if err != nil {
		return nil, err
	}
	ufos, err := LoadUfoList(filepath.Join(dir, "ufos.yaml"))
	if err != nil {
		return nil, err
	}
	return NewCatalogue(missions, deployments, ufos)
}

// Mission returns the mission rule for key, or false if none.
func (c *Catalogue) Mission(key string) (*MissionRule, bool) {
	r, ok := c.missions[key]
	return r, ok
}

// Deployment returns the deployment rule for key, or false if none.
func (c *Catalogue) Deployment(key string) (*DeploymentRule, bool) {
	r, ok := c.deployments[key]
	return r, ok
}

// Ufo returns the ufo rule for key, or false if none.
func (c *Catalogue) Ufo(key string) (*UfoRule, bool) {
	r, ok := c.ufos[key]
	return r, ok
}

// Counts returns the number of mission, deployment and ufo rules.
func (c *Catalogue) Counts() (missions, deployments, ufos int) {
	return len(c.missions), len(c.deployments), len(c.ufos)
}

// SiteMissions returns the missions that place sites, ordered by key.
func (c *Catalogue) SiteMissions() []*MissionRule {
	var out []*MissionRule
	for _, m := range c.missions {
		if m.SiteDeployment != "" {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
