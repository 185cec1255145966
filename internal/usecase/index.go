package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"supportbot/config"
	"supportbot/internal/adapter/loader"
	"supportbot/internal/adapter/store"
	"supportbot/internal/domain"
	"supportbot/internal/port"
)

// IndexUseCase compiles data files into a bolt snapshot.
type IndexUseCase struct {
	store  *store.BoltStore
	cfg    *config.Config
	cache  port.ResultCache
	logger *zap.Logger
}

// NewIndexUseCase creates a new index use case.
func NewIndexUseCase(store *store.BoltStore, cfg *config.Config, logger *zap.Logger) *IndexUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IndexUseCase{store: store, cfg: cfg, logger: logger}
}

// WithResultCache makes Index drop cached results whenever it writes a new
// snapshot. Only shared caches (redis) outlive the indexing process.
func (u *IndexUseCase) WithResultCache(c port.ResultCache) *IndexUseCase {
	u.cache = c
	return u
}

// IndexResult contains the results of an indexing operation.
type IndexResult struct {
	Sources     loader.Sources
	Products    int
	FAQs        int
	Fingerprint string
	Skipped     bool
	Rebuilt     bool
	Reason      string

	CacheInvalidated bool
}

// Index loads the data files under root and writes them to the snapshot.
// An up-to-date snapshot is left alone unless force is set.
func (u *IndexUseCase) Index(ctx context.Context, root string, force bool, progress func(written, total int)) (*IndexResult, error) {
	migration, err := u.store.CheckMigration(u.cfg)
	if err != nil {
		return nil, err
	}

	result := &IndexResult{}
	if migration.NeedsRebuild {
		u.logger.Info("rebuilding snapshot", zap.String("reason", migration.Reason))
		if err := u.store.Clear(); err != nil {
			return nil, fmt.Errorf("failed to clear snapshot: %w", err)
		}
		result.Rebuilt = true
		result.Reason = migration.Reason
	}
	if migration.NeedsMigration || migration.NeedsRebuild {
		if err := u.store.Migrate(u.cfg); err != nil {
			return nil, err
		}
	}

	kb, src, err := loader.LoadFromConfig(u.cfg, root)
	if err != nil {
		return nil, err
	}
	result.Sources = src
	result.Products = len(kb.Products)
	result.FAQs = len(kb.FAQs)
	result.Fingerprint = kb.Fingerprint

	if !force && !result.Rebuilt {
		if _, info, err := u.store.ReadSnapshot(); err == nil && info.Fingerprint == kb.Fingerprint {
			result.Skipped = true
			return result, nil
		}
	}

	if err := u.store.WriteSnapshot(kb, progress); err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	if u.cache != nil {
		u.cache.Invalidate(ctx)
		result.CacheInvalidated = true
	}

	u.logger.Info("snapshot written",
		zap.Int("products", result.Products),
		zap.Int("faqs", result.FAQs),
		zap.String("fingerprint", kb.Fingerprint),
	)
	return result, nil
}

// LoadSnapshot reads the snapshot and verifies it still matches the data
// files under root. A snapshot built from other data or other data settings
// is rejected with domain.ErrSnapshotStale.
func LoadSnapshot(s *store.BoltStore, cfg *config.Config, root string) (domain.KnowledgeBase, error) {
	rebuild, reason, err := s.NeedsRebuild(cfg)
	if err != nil {
		return domain.KnowledgeBase{}, err
	}
	if rebuild {
		return domain.KnowledgeBase{}, fmt.Errorf("%w: %s", domain.ErrSnapshotStale, reason)
	}

	kb, info, err := s.ReadSnapshot()
	if err != nil {
		return domain.KnowledgeBase{}, err
	}

	src, err := loader.Resolve(cfg.Data, cfg.ResolveDataDir(root))
	if err != nil {
		if errors.Is(err, domain.ErrNoDataFile) {
			// data files removed after indexing; the snapshot is all there is
			return kb, nil
		}
		return domain.KnowledgeBase{}, err
	}
	fingerprint, err := loader.FingerprintFiles(src)
	if err != nil {
		return domain.KnowledgeBase{}, err
	}
	if fingerprint != info.Fingerprint {
		return domain.KnowledgeBase{}, fmt.Errorf("%w: data changed since %s", domain.ErrSnapshotStale, info.CreatedAt.Format("2006-01-02 15:04"))
	}
	return kb, nil
}
