package modfsm_test

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/modfsm"
	"github.com/aretw0/modfsm/pkg/adapters/memory"
	"github.com/aretw0/modfsm/pkg/adapters/redis"
	"github.com/aretw0/modfsm/pkg/domain"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects lifecycle events.
type recorder struct {
	mu         sync.Mutex
	constructs []domain.ConstructEvent
	evaluates  []domain.EvaluateEvent
}

func (r *recorder) hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnConstruct: func(_ context.Context, e *domain.ConstructEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.constructs = append(r.constructs, *e)
		},
		OnEvaluate: func(_ context.Context, e *domain.EvaluateEvent) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.evaluates = append(r.evaluates, *e)
		},
	}
}

func TestEngine_ModulusOf(t *testing.T) {
	eng := modfsm.New()
	ctx := context.Background()

	tests := []struct {
		modulus int
		input   string
		want    int
	}{
		{3, "1101", 1},
		{3, "1111", 0},
		{5, "11111", 1},
		{7, "101010", 0},
		{2, "101", 1},
		{2, "100", 0},
	}
	for _, tt := range tests {
		got, err := eng.ModulusOf(ctx, tt.modulus, tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s mod %d", tt.input, tt.modulus)
	}
}

func TestEngine_Errors(t *testing.T) {
	eng := modfsm.New(modfsm.WithMaxModulus(100))
	ctx := context.Background()

	for _, modulus := range []int{0, 1, -5} {
		_, err := eng.ModulusOf(ctx, modulus, "1")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.EqualError(t, err, "modulus must be greater than 1")
	}

	_, err := eng.ModulusOf(ctx, 101, "1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "exceeds the limit of 100")

	_, err = eng.ModulusOf(ctx, 3, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.EqualError(t, err, "input must not be empty")

	_, err = eng.ModulusOf(ctx, 3, "10120")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "'2'")
}

func TestEngine_HooksAndCache(t *testing.T) {
	rec := &recorder{}
	eng := modfsm.New(modfsm.WithLifecycleHooks(rec.hooks()))
	ctx := context.Background()

	_, err := eng.ModulusOf(ctx, 3, "1101")
	require.NoError(t, err)
	_, err = eng.ModulusOf(ctx, 3, "12")
	require.Error(t, err)

	require.Len(t, rec.constructs, 2)
	assert.Equal(t, domain.SourceBuild, rec.constructs[0].Source)
	assert.Equal(t, domain.SourceCache, rec.constructs[1].Source)
	assert.Equal(t, 3, rec.constructs[0].Modulus)

	require.Len(t, rec.evaluates, 2)
	assert.Equal(t, 1, rec.evaluates[0].Remainder)
	assert.Equal(t, 4, rec.evaluates[0].Symbols)
	assert.NoError(t, rec.evaluates[0].Err)
	assert.ErrorIs(t, rec.evaluates[1].Err, domain.ErrInvalidInput)
}

func TestEngine_StorePublishesAndLoads(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	first := modfsm.New(modfsm.WithStore(store))
	_, err := first.ModulusOf(ctx, 5, "11111")
	require.NoError(t, err)

	moduli, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, moduli)

	rec := &recorder{}
	second := modfsm.New(modfsm.WithStore(store), modfsm.WithLifecycleHooks(rec.hooks()))
	got, err := second.ModulusOf(ctx, 5, "11111")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	require.Len(t, rec.constructs, 1)
	assert.Equal(t, domain.SourceStore, rec.constructs[0].Source)
}

func TestEngine_CorruptStoreFailsLoudly(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Save(ctx, 3, &domain.Definition{
		States:   3,
		Alphabet: domain.BinaryAlphabet,
		Table:    []domain.State{0, 1, 2, 0, 1, 1}, // last entry should be 2
	}))

	eng := modfsm.New(modfsm.WithStore(store))
	_, err := eng.ModulusOf(ctx, 3, "1101")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	require.NoError(t, eng.Evict(ctx, 3))
	got, err := eng.ModulusOf(ctx, 3, "1101")
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

type failingStore struct {
	*memory.Store
}

func (failingStore) Load(context.Context, int) (*domain.Definition, error) {
	return nil, errors.New("connection refused")
}

func TestEngine_StoreOutage(t *testing.T) {
	eng := modfsm.New(modfsm.WithStore(&failingStore{Store: memory.NewStore()}))

	_, err := eng.ModulusOf(context.Background(), 3, "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}

// blockingStore holds every Load until release is closed and then honours
// the caller's context, as a network store would.
type blockingStore struct {
	*memory.Store
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingStore) Load(ctx context.Context, modulus int) (*domain.Definition, error) {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return b.Store.Load(ctx, modulus)
}

func TestEngine_CanceledCallerDoesNotFailSharedBuild(t *testing.T) {
	store := &blockingStore{
		Store:   memory.NewStore(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	eng := modfsm.New(modfsm.WithStore(store))

	firstCtx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := eng.ModulusOf(firstCtx, 5, "1101")
		first <- err
	}()

	<-store.entered
	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	type outcome struct {
		rem int
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		rem, err := eng.ModulusOf(context.Background(), 5, "1101")
		second <- outcome{rem, err}
	}()
	time.Sleep(20 * time.Millisecond)
	close(store.release)

	got := <-second
	require.NoError(t, got.err)
	assert.Equal(t, 13%5, got.rem)

	_, err := store.Store.Load(context.Background(), 5)
	assert.NoError(t, err, "the shared build was published")
}

func TestEngine_OversizedModulus(t *testing.T) {
	eng := modfsm.New()

	var err error
	require.NotPanics(t, func() {
		_, err = eng.ModulusOf(context.Background(), math.MaxInt, "1")
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEngine_RedisSharedBuild(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	newEngine := func() *modfsm.Engine {
		client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return modfsm.New(
			modfsm.WithStore(redis.NewFromClient(client)),
			modfsm.WithBuildLocker(redis.NewLocker(client, "test:", redis.WithPollInterval(5*time.Millisecond)), time.Second),
		)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		eng := newEngine()
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := eng.ModulusOf(ctx, 97, "1100001") // 97
			assert.NoError(t, err)
			assert.Equal(t, 0, got)
		}()
	}
	wg.Wait()

	assert.True(t, mr.Exists(redis.DefaultPrefix+"97"))
	assert.False(t, mr.Exists("test:lock:97"), "lock released")
}

func TestEngine_Concurrent(t *testing.T) {
	eng := modfsm.New(modfsm.WithCacheSize(2))
	ctx := context.Background()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			modulus := 2 + i%7
			got, err := eng.ModulusOf(ctx, modulus, "101010")
			assert.NoError(t, err)
			assert.Equal(t, 42%modulus, got)
		}(i)
	}
	wg.Wait()
}

func TestEngine_ModulusOfReader(t *testing.T) {
	rec := &recorder{}
	eng := modfsm.New(modfsm.WithLifecycleHooks(rec.hooks()))

	got, err := eng.ModulusOfReader(context.Background(), 7, strings.NewReader("101\n010\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, got)
	require.Len(t, rec.evaluates, 1)
	assert.Equal(t, 8, rec.evaluates[0].Symbols, "bytes read, including line breaks")
}

func TestEngine_Trace(t *testing.T) {
	eng := modfsm.New()
	path, err := eng.Trace(context.Background(), 3, "1101")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 0, 1}, path)
}
