package system

import (
	"context"
	"fmt"
	"time"

	coresys "github.com/geoscape/server/internal/core/system"
	"github.com/geoscape/server/internal/save"
	"github.com/geoscape/server/internal/world"
	"go.uber.org/zap"
)

// SaveStore keeps encoded save files per slot. *persist.SaveRepo implements it.
type SaveStore interface {
	Save(ctx context.Context, slot string, gameTime int64, data []byte) (int64, error)
	Prune(ctx context.Context, slot string, keep int) (int64, error)
}

// PersistenceSystem periodically writes the whole globe to the save store.
// Phase 3 (Persist).
type PersistenceSystem struct {
	world     *world.State
	store     SaveStore
	log       *zap.Logger
	slot      string
	keep      int
	tickCount int
	interval  int // auto-save every N ticks
}

func NewPersistenceSystem(ws *world.State, store SaveStore, log *zap.Logger, slot string, keep, intervalTicks int) *PersistenceSystem {
	return &PersistenceSystem{
		world:    ws,
		store:    store,
		log:      log,
		slot:     slot,
		keep:     keep,
		interval: intervalTicks,
	}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	if err := s.SaveNow(); err != nil {
		s.log.Error("autosave failed", zap.Error(err))
	}
}

// SaveNow encodes and stores the globe immediately. Called for graceful
// shutdown so no campaign time is lost.
func (s *PersistenceSystem) SaveNow() error {
	raw, err := save.EncodeGame(s.world)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := s.store.Save(ctx, s.slot, s.world.Elapsed(), raw)
	if err != nil {
		return fmt.Errorf("store save: %w", err)
	}
	pruned, err := s.store.Prune(ctx, s.slot, s.keep)
	if err != nil {
		// The new save is already stored; old rows linger until next time.
		s.log.Warn("prune old saves failed", zap.Error(err))
	}
	s.log.Info("campaign saved",
		zap.Int64("save_id", id),
		zap.String("slot", s.slot),
		zap.Int64("game_time", s.world.Elapsed()),
		zap.Int("bytes", len(raw)),
		zap.Int64("pruned", pruned))
	return nil
}
