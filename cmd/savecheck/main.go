// savecheck loads a YAML save file against a rules directory and reports
// records that would be dropped and craft links that would not resolve.
// With -import the file is stored as the newest save of a slot.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/geoscape/server/internal/config"
	"github.com/geoscape/server/internal/data"
	"github.com/geoscape/server/internal/persist"
	"github.com/geoscape/server/internal/save"
	"go.uber.org/zap"
)

func main() {
	rulesDir := flag.String("rules", "data/rules", "rules directory")
	doImport := flag.Bool("import", false, "store the save in the database after checking it")
	slot := flag.String("slot", "", "save slot for -import (default: config save.slot)")
	strict := flag.Bool("strict", false, "refuse to import a save that is not clean")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: savecheck [flags] <save.yaml>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *rulesDir, *doImport, *slot, *strict, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path, rulesDir string, doImport bool, slot string, strict bool, out io.Writer) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	rules, err := data.LoadCatalogue(rulesDir)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	report, gameTime, err := check(raw, rules, out)
	if err != nil {
		return err
	}
	if !doImport {
		return nil
	}
	if strict && !report.Clean() {
		return fmt.Errorf("save is not clean, refusing to import")
	}

	cfgPath := "config/server.toml"
	if p := os.Getenv("GEOSCAPE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if slot == "" {
		slot = cfg.Save.Slot
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	db, err := persist.NewDB(ctx, cfg.Database, zap.NewNop())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()
	if _, err := persist.RunMigrations(ctx, db.Pool); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	id, err := persist.NewSaveRepo(db).Save(ctx, slot, gameTime, raw)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "imported as save %d in slot %q\n", id, slot)
	return nil
}

// check decodes raw and prints what a server load would recover from.
func check(raw []byte, rules save.RuleLookup, out io.Writer) (*save.LoadReport, int64, error) {
	st, report, err := save.DecodeGame(raw, rules, zap.NewNop())
	if err != nil {
		return nil, 0, fmt.Errorf("unreadable save: %w", err)
	}

	fmt.Fprintf(out, "campaign time  %d h\n", st.Elapsed()/3600)
	fmt.Fprintf(out, "ufos           %d\n", report.Crafts)
	fmt.Fprintf(out, "mission sites  %d\n", report.Sites)
	for _, s := range report.Skipped {
		fmt.Fprintf(out, "skipped  %s\n", s)
	}
	for _, d := range report.Dangling {
		fmt.Fprintf(out, "dangling %v\n", d)
	}
	if report.Clean() {
		fmt.Fprintln(out, "ok")
	}
	return report, st.Elapsed(), nil
}
