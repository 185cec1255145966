package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"supportbot/config"
	"supportbot/internal/adapter/cache"
	"supportbot/internal/adapter/llm"
	"supportbot/internal/adapter/loader"
	"supportbot/internal/adapter/memstore"
	"supportbot/internal/adapter/orders"
	"supportbot/internal/adapter/session"
	"supportbot/internal/adapter/store"
	"supportbot/internal/domain"
	"supportbot/internal/port"
	"supportbot/internal/usecase"
)

// app holds the wired components shared by ask, chat and serve.
type app struct {
	kb        domain.KnowledgeBase
	retriever port.Retriever
	chat      *usecase.ChatUseCase
	closers   []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("close failed", zap.Error(err))
		}
	}
}

func buildApp(ctx context.Context, cfg *config.Config, root string, fromSnapshot bool) (*app, error) {
	a := &app{}

	kb, err := loadKnowledge(cfg, root, fromSnapshot)
	if err != nil {
		return nil, err
	}
	a.kb = kb
	logger.Info("knowledge loaded",
		zap.Int("products", len(kb.Products)),
		zap.Int("faqs", len(kb.FAQs)),
		zap.String("fingerprint", kb.Fingerprint),
		zap.Bool("snapshot", fromSnapshot),
	)

	lookup, err := buildOrderLookup(cfg.Orders)
	if err != nil {
		return nil, err
	}

	retrieveUC, err := usecase.BuildRetrieveUseCase(cfg.Retrieve, kb, lookup, logger)
	if err != nil {
		return nil, err
	}
	a.retriever = retrieveUC

	resultCache, err := buildCache(ctx, cfg.Cache, a)
	if err != nil {
		a.Close()
		return nil, err
	}
	if resultCache != nil {
		a.retriever = cache.NewCachedRetriever(retrieveUC, resultCache, kb.Fingerprint)
	}

	sessions, err := buildSessionStore(ctx, cfg, root)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, sessions.Close)

	a.chat = usecase.NewChatUseCase(
		a.retriever,
		usecase.NewAnswerUseCase(buildResponder(cfg.LLM), logger),
		sessions,
		cfg.Session.HistoryLimit,
		logger,
	)
	return a, nil
}

func loadKnowledge(cfg *config.Config, root string, fromSnapshot bool) (domain.KnowledgeBase, error) {
	if !fromSnapshot {
		kb, _, err := loader.LoadFromConfig(cfg, root)
		return kb, err
	}

	dbPath := config.SnapshotPath(root)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return domain.KnowledgeBase{}, fmt.Errorf("no snapshot found. Run 'supportbot index' first")
	}
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return domain.KnowledgeBase{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer st.Close()

	return usecase.LoadSnapshot(st, cfg, root)
}

func buildOrderLookup(cfg config.OrdersConfig) (port.OrderLookup, error) {
	switch cfg.Mode {
	case "memory", "":
		return orders.NewMemoryLookup(orders.FromConfig(cfg.Mock)), nil
	case "http":
		return orders.NewHTTPClient(cfg.BaseURL, cfg.Timeout, logger), nil
	case "off":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown orders mode %q", cfg.Mode)
	}
}

func buildCache(ctx context.Context, cfg config.CacheConfig, a *app) (port.ResultCache, error) {
	switch cfg.Backend {
	case "memory", "":
		return cache.NewMemoryCache(cfg.MaxSize, cfg.TTL), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		return cache.NewRedisCache(client, cfg.KeyPrefix, cfg.TTL, logger), nil
	case "off":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func buildSessionStore(ctx context.Context, cfg *config.Config, root string) (port.SessionStore, error) {
	switch cfg.Session.Backend {
	case "memory", "":
		return memstore.NewSessionStore(), nil
	case "bolt":
		path := cfg.Session.BoltPath
		if path == "" {
			if err := config.EnsureStateDir(root); err != nil {
				return nil, err
			}
			path = config.SessionDBPath(root)
		} else if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		return store.NewBoltStore(path)
	case "postgres":
		dsn := os.Getenv(cfg.Session.PostgresEnv)
		if dsn == "" {
			return nil, fmt.Errorf("%s is not set", cfg.Session.PostgresEnv)
		}
		return session.OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

// buildResponder returns nil when the model is disabled or cannot be set up;
// answers then come from templates.
func buildResponder(cfg config.LLMConfig) port.Responder {
	if !cfg.Enabled {
		return nil
	}
	r, err := llm.NewOpenAIResponder(cfg)
	if err != nil {
		logger.Warn("language model disabled", zap.Error(err))
		return nil
	}
	return r
}
