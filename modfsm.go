package modfsm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/aretw0/modfsm/internal/logging"
	"github.com/aretw0/modfsm/pkg/domain"
	"github.com/aretw0/modfsm/pkg/modulo"
	"github.com/aretw0/modfsm/pkg/ports"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize bounds the in-process automaton cache.
const DefaultCacheSize = 256

// Engine is the high-level entry point of the library. It caches automatons
// per modulus, optionally shares them through an AutomatonStore, and reports
// lifecycle events. It is safe for concurrent use.
type Engine struct {
	cache      *modulo.Cache
	store      ports.AutomatonStore
	locker     ports.BuildLocker
	lockTTL    time.Duration
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	maxModulus int
	cacheSize  int
	builds     singleflight.Group
	now        func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStore shares built automatons through an external store.
func WithStore(store ports.AutomatonStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithBuildLocker makes replicas sharing a store build each modulus once.
// ttl bounds how long a crashed builder can hold the lock.
func WithBuildLocker(locker ports.BuildLocker, ttl time.Duration) Option {
	return func(e *Engine) {
		e.locker = locker
		e.lockTTL = ttl
	}
}

// WithMaxModulus rejects moduli above limit as invalid input. Zero (the
// default) leaves only modulo.MaxModulus.
func WithMaxModulus(limit int) Option {
	return func(e *Engine) {
		e.maxModulus = limit
	}
}

// WithCacheSize bounds the in-process cache. Zero or less is unbounded.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		e.cacheSize = n
	}
}

// New initializes an Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{
		cacheSize: DefaultCacheSize,
		lockTTL:   30 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	eng.cache = modulo.NewCache(eng.cacheSize)
	return eng
}

// Construct returns the automaton for modulus, building it on first use.
func (e *Engine) Construct(ctx context.Context, modulus int) (*modulo.Automaton, error) {
	a, source, err := e.construct(ctx, modulus)
	e.emitConstruct(ctx, modulus, source, err)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (e *Engine) construct(ctx context.Context, modulus int) (*modulo.Automaton, string, error) {
	if err := modulo.ValidateModulus(modulus); err != nil {
		return nil, domain.SourceBuild, err
	}
	if e.maxModulus > 0 && modulus > e.maxModulus {
		return nil, domain.SourceBuild, domain.InvalidInputf("modulus %d exceeds the limit of %d", modulus, e.maxModulus)
	}
	if a, ok := e.cache.Get(modulus); ok {
		return a, domain.SourceCache, nil
	}

	type result struct {
		a      *modulo.Automaton
		source string
	}
	// The shared build outlives any single caller; each caller only stops
	// waiting on its own cancellation.
	buildCtx := context.WithoutCancel(ctx)
	ch := e.builds.DoChan(strconv.Itoa(modulus), func() (any, error) {
		a, source, err := e.obtain(buildCtx, modulus)
		if err != nil {
			return nil, err
		}
		return result{a: e.cache.Put(a), source: source}, nil
	})

	select {
	case <-ctx.Done():
		return nil, domain.SourceBuild, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, domain.SourceBuild, res.Err
		}
		r := res.Val.(result)
		return r.a, r.source, nil
	}
}

// obtain loads the automaton from the store or builds it, publishing fresh
// builds back to the store.
func (e *Engine) obtain(ctx context.Context, modulus int) (*modulo.Automaton, string, error) {
	if e.store == nil {
		a, hit, err := e.cache.GetOrBuild(modulus)
		if hit {
			return a, domain.SourceCache, nil
		}
		return a, domain.SourceBuild, err
	}

	if a, err := e.load(ctx, modulus); err == nil || !errors.Is(err, domain.ErrAutomatonNotFound) {
		return a, domain.SourceStore, err
	}

	if e.locker != nil {
		unlock, err := e.locker.LockBuild(ctx, modulus, e.lockTTL)
		if err != nil {
			return nil, domain.SourceBuild, fmt.Errorf("failed to lock build of modulus %d: %w", modulus, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				e.logger.Warn("failed to release build lock", "modulus", modulus, "err", err)
			}
		}()

		// Another replica may have finished while we waited.
		if a, err := e.load(ctx, modulus); err == nil || !errors.Is(err, domain.ErrAutomatonNotFound) {
			return a, domain.SourceStore, err
		}
	}

	a, err := modulo.Build(modulus)
	if err != nil {
		return nil, domain.SourceBuild, err
	}
	if err := e.store.Save(ctx, modulus, a.Definition()); err != nil {
		// The automaton is correct either way; only sharing failed.
		e.logger.Warn("failed to publish automaton", "modulus", modulus, "err", err)
	}
	return a, domain.SourceBuild, nil
}

func (e *Engine) load(ctx context.Context, modulus int) (*modulo.Automaton, error) {
	def, err := e.store.Load(ctx, modulus)
	if err != nil {
		if errors.Is(err, domain.ErrAutomatonNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load automaton for modulus %d: %w", modulus, err)
	}
	a, err := modulo.FromDefinition(modulus, def)
	if err != nil {
		return nil, fmt.Errorf("stored automaton for modulus %d is corrupt: %w", modulus, err)
	}
	return a, nil
}

// Evict drops the automaton for modulus from the in-process cache and the
// store, e.g. after a corrupt entry was reported.
func (e *Engine) Evict(ctx context.Context, modulus int) error {
	e.cache.Remove(modulus)
	if e.store == nil {
		return nil
	}
	return e.store.Delete(ctx, modulus)
}

// Remainder evaluates input on a. Errors from the automaton are returned
// unchanged.
func (e *Engine) Remainder(ctx context.Context, a *modulo.Automaton, input string) (int, error) {
	start := e.now()
	r, err := a.Remainder(input)
	e.emitEvaluate(ctx, a.Modulus(), len(input), r, start, err)
	return r, err
}

// ModulusOf returns the value of the binary string input modulo modulus.
func (e *Engine) ModulusOf(ctx context.Context, modulus int, input string) (int, error) {
	a, err := e.Construct(ctx, modulus)
	if err != nil {
		return 0, err
	}
	return e.Remainder(ctx, a, input)
}

// ModulusOfReader is ModulusOf over a stream of digits, for inputs that do
// not fit in memory. White space between digits is ignored.
func (e *Engine) ModulusOfReader(ctx context.Context, modulus int, r io.Reader) (int, error) {
	a, err := e.Construct(ctx, modulus)
	if err != nil {
		return 0, err
	}
	cr := &countingReader{r: r}
	start := e.now()
	rem, err := a.RemainderReader(ctx, cr)
	e.emitEvaluate(ctx, modulus, cr.n, rem, start, err)
	return rem, err
}

// Trace returns the remainder after every prefix of input.
func (e *Engine) Trace(ctx context.Context, modulus int, input string) ([]int, error) {
	a, err := e.Construct(ctx, modulus)
	if err != nil {
		return nil, err
	}
	return a.Trace(input)
}

func (e *Engine) emitConstruct(ctx context.Context, modulus int, source string, err error) {
	if err != nil {
		e.logger.Debug("construct failed", "modulus", modulus, "err", err)
	}
	if e.hooks.OnConstruct == nil {
		return
	}
	e.hooks.OnConstruct(ctx, &domain.ConstructEvent{
		EventBase: domain.EventBase{Timestamp: e.now(), Type: domain.EventConstruct, Modulus: modulus},
		Source:    source,
		Err:       err,
	})
}

func (e *Engine) emitEvaluate(ctx context.Context, modulus, symbols, remainder int, start time.Time, err error) {
	if errors.Is(err, domain.ErrConfiguration) {
		e.logger.Error("automaton is malformed", "modulus", modulus, "err", err)
	}
	if e.hooks.OnEvaluate == nil {
		return
	}
	now := e.now()
	e.hooks.OnEvaluate(ctx, &domain.EvaluateEvent{
		EventBase: domain.EventBase{Timestamp: now, Type: domain.EventEvaluate, Modulus: modulus},
		Symbols:   symbols,
		Remainder: remainder,
		Duration:  now.Sub(start),
		Err:       err,
	})
}

// countingReader counts bytes for the evaluate event.
type countingReader struct {
	r io.Reader
	n int
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += n
	return n, err
}
