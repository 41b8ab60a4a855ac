package archive

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"termchess-local/config"
	"termchess-local/obslog"
)

// Archiver fans a finished game out to whichever backends are configured.
// Either backend may be nil.
type Archiver struct {
	store *RedisStore
	repo  *Repository
	log   *zap.Logger
}

func New(store *RedisStore, repo *Repository) *Archiver {
	return &Archiver{store: store, repo: repo, log: obslog.L()}
}

// Open connects the backends named in cfg. Empty URLs are skipped, so an
// empty config yields an Archiver that does nothing.
func Open(ctx context.Context, cfg config.ArchiveConfig) (*Archiver, error) {
	a := New(nil, nil)
	if cfg.RedisURL != "" {
		rdb, err := DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.store = NewRedisStore(rdb, cfg.RecentLimit)
	}
	if cfg.DatabaseURL != "" {
		repo, err := NewRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			repo.Close()
			a.Close()
			return nil, err
		}
		a.repo = repo
	}
	return a, nil
}

// Enabled reports whether any backend is configured.
func (a *Archiver) Enabled() bool {
	return a != nil && (a.store != nil || a.repo != nil)
}

// Save writes g to every backend and joins their errors.
func (a *Archiver) Save(ctx context.Context, g Game) error {
	if !a.Enabled() {
		return nil
	}
	var errs []error
	if a.store != nil {
		if err := a.store.SaveSummary(ctx, g.Summary); err != nil {
			a.log.Warn("redis archive failed", zap.String("game_id", g.GameID), zap.Error(err))
			errs = append(errs, err)
		}
	}
	if a.repo != nil {
		if err := a.repo.SaveResult(ctx, g); err != nil {
			a.log.Warn("postgres archive failed", zap.String("game_id", g.GameID), zap.Error(err))
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		a.log.Info("game archived",
			zap.String("game_id", g.GameID),
			zap.String("result", g.Result),
			zap.Int("moves", g.Moves),
		)
	}
	return errors.Join(errs...)
}

// Recent lists recently archived games, or nothing without Redis.
func (a *Archiver) Recent(ctx context.Context) ([]Summary, error) {
	if a == nil || a.store == nil {
		return nil, nil
	}
	return a.store.Recent(ctx)
}

func (a *Archiver) Close() error {
	if a == nil {
		return nil
	}
	return errors.Join(a.store.Close(), a.repo.Close())
}
