package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/modfsm"
	"github.com/aretw0/modfsm/internal/config"
	"github.com/aretw0/modfsm/pkg/adapters/memory"
	"github.com/aretw0/modfsm/pkg/adapters/redis"
	"github.com/aretw0/modfsm/pkg/domain"
	"github.com/aretw0/modfsm/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
)

// CloseFunc releases resources opened by NewEngine.
type CloseFunc func() error

// NewEngine initializes an engine with standard CLI conventions: the store
// named by cfg, log hooks on logger, and metrics when reg is non-nil.
func NewEngine(cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*modfsm.Engine, CloseFunc, error) {
	hooks := []domain.LifecycleHooks{observability.LogHooks(logger)}
	if reg != nil {
		hooks = append(hooks, observability.NewMetrics(reg).Hooks())
	}

	opts := []modfsm.Option{
		modfsm.WithLogger(logger),
		modfsm.WithLifecycleHooks(observability.Combine(hooks...)),
		modfsm.WithMaxModulus(cfg.MaxModulus),
		modfsm.WithCacheSize(cfg.CacheSize),
	}
	closer := CloseFunc(func() error { return nil })

	switch cfg.Store.Kind {
	case config.StoreNone, "":
	case config.StoreMemory:
		opts = append(opts, modfsm.WithStore(memory.NewStore()))
	case config.StoreRedis:
		rc := cfg.Store.Redis
		client := backend.NewClient(&backend.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		opts = append(opts,
			modfsm.WithStore(redis.NewFromClient(client, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))),
			modfsm.WithBuildLocker(redis.NewLocker(client, rc.Prefix), rc.LockTimeout),
		)
		closer = client.Close
		logger.Debug("using redis automaton store", "addr", rc.Addr, "prefix", rc.Prefix)
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}

	return modfsm.New(opts...), closer, nil
}
