package save

import (
	"bytes"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/geoscape/server/internal/world"
)

// FormatVersion is written at the top of every save file.
const FormatVersion = 1

const (
	keyVersion      = "version"
	keyTime         = "time"
	keyIDs          = "ids"
	keyUfos         = "ufos"
	keyMissionSites = "missionSites"
	keyLastSite     = "missionSite"
	keyLastUfo      = "ufo"
)

// SkippedRecord is a record phase 1 could not rebuild.
type SkippedRecord struct {
	Section string // "ufos" or "missionSites"
	Index   int
	Err     error
}

func (s SkippedRecord) String() string {
	return fmt.Sprintf("%s[%d]: %v", s.Section, s.Index, s.Err)
}

// LoadReport lists everything a load recovered from instead of failing.
type LoadReport struct {
	Crafts   int
	Sites    int
	Skipped  []SkippedRecord
	Dangling []error
}

// Clean reports whether every record loaded and every link resolved.
func (r *LoadReport) Clean() bool {
	return len(r.Skipped) == 0 && len(r.Dangling) == 0
}

// EncodeGame writes the whole globe as one YAML save file. Sites and craft
// queued for destruction are left out, as are links to such craft, so a save
// taken mid-tick matches the globe after cleanup.
func EncodeGame(st *world.State) ([]byte, error) {
	root := NewDocument()
	root.SetInt(keyVersion, FormatVersion)
	root.SetInt64(keyTime, st.Elapsed())

	siteID, craftUID := st.Counters()
	ids := NewDocument()
	ids.SetInt(keyLastSite, siteID)
	ids.SetInt(keyLastUfo, craftUID)
	root.Put(keyIDs, ids.Node())

	crafts := st.Crafts()
	ufos := make([]*yaml.Node, 0, len(crafts))
	for _, c := range crafts {
		if st.PendingDestruction(c.Handle()) {
			continue
		}
		ufos = append(ufos, EncodeCraft(c))
	}
	root.Put(keyUfos, newSeq(ufos))

	sites := st.MissionSites()
	nodes := make([]*yaml.Node, 0, len(sites))
	for _, s := range sites {
		if st.PendingDestruction(s.Handle()) {
			continue
		}
		n := EncodeMissionSite(s)
		if c, ok := st.LinkedCraft(s); ok && st.PendingDestruction(c.Handle()) {
			(&Document{node: n}).del(keyUfoUniqueID)
		}
		nodes = append(nodes, n)
	}
	root.Put(keyMissionSites, newSeq(nodes))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root.Node()); err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode save: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeGame rebuilds a globe from a save file in two phases. Phase 1
// decodes every craft and every site on its own; a record that fails is
// skipped and listed in the report. Phase 2 starts only after phase 1 has
// finished for both sections and re-links sites to their craft.
// An error is returned only when the file as a whole is unreadable.
func DecodeGame(raw []byte, rules RuleLookup, log *zap.Logger) (*world.State, *LoadReport, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	root, err := Wrap(&doc)
	if err != nil {
		return nil, nil, fmt.Errorf("save root: %w", err)
	}
	version, err := read[int](root, keyVersion)
	if err != nil {
		return nil, nil, err
	}
	if v := version.or(FormatVersion); v > FormatVersion {
		return nil, nil, malformed(keyVersion, "unsupported save version %d", v)
	}
	elapsed, err := read[int64](root, keyTime)
	if err != nil {
		return nil, nil, err
	}
	if elapsed.value < 0 {
		return nil, nil, malformed(keyTime, "negative campaign time %d", elapsed.value)
	}
	ufoNodes, err := seq(root, keyUfos)
	if err != nil {
		return nil, nil, err
	}
	siteNodes, err := seq(root, keyMissionSites)
	if err != nil {
		return nil, nil, err
	}

	lastSite, lastUfo, err := readCounters(root)
	if err != nil {
		return nil, nil, err
	}

	st := world.NewState()
	report := &LoadReport{}
	skip := func(section string, i int, err error) {
		report.Skipped = append(report.Skipped, SkippedRecord{Section: section, Index: i, Err: err})
		log.Warn("save record skipped",
			zap.String("section", section),
			zap.Int("index", i),
			zap.Error(err))
	}

	for i, n := range ufoNodes {
		c, err := DecodeCraft(n, rules)
		if err != nil {
			skip(keyUfos, i, err)
			continue
		}
		if _, err := st.AddCraft(c); err != nil {
			skip(keyUfos, i, fmt.Errorf("%w: %w", ErrMalformedRecord, err))
			continue
		}
		report.Crafts++
	}
	sites := make([]*world.MissionSite, 0, len(siteNodes))
	for i, n := range siteNodes {
		s, err := DecodeMissionSite(n, rules)
		if err != nil {
			skip(keyMissionSites, i, err)
			continue
		}
		if s.ID() > lastSite {
			lastSite = s.ID()
		}
		sites = append(sites, s)
	}
	// Every stored id is reserved before a site without one is numbered.
	st.RestoreCounters(lastSite, lastUfo)
	for _, s := range sites {
		st.AddMissionSite(s)
		report.Sites++
	}

	report.Dangling = ResolveCraftLinks(st.MissionSites(), st, log)

	st.SetElapsed(elapsed.value)

	log.Info("save decoded",
		zap.Int("ufos", report.Crafts),
		zap.Int("mission_sites", report.Sites),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("dangling", len(report.Dangling)))
	return st, report, nil
}

func readCounters(root *Document) (site, ufo int, err error) {
	n := root.Get(keyIDs)
	if isNull(n) {
		return 0, 0, nil
	}
	ids, err := Wrap(n)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", keyIDs, err)
	}
	lastSite, err := read[int](ids, keyLastSite)
	if err != nil {
		return 0, 0, err
	}
	lastUfo, err := read[int](ids, keyLastUfo)
	if err != nil {
		return 0, 0, err
	}
	return lastSite.value, lastUfo.value, nil
}
