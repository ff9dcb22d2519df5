package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aretw0/modfsm/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "modfsm:automaton:"

// Store implements ports.AutomatonStore using Redis.
// Definitions are stored as JSON; a sorted set indexes the moduli.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for stored automatons.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(modulus int) string {
	return s.prefix + strconv.Itoa(modulus)
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the definition to Redis.
func (s *Store) Save(ctx context.Context, modulus int, def *domain.Definition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal automaton: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(modulus), data, s.ttl)

	// Score = expiry time, so List can prune entries whose key expired.
	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = 4102444800 // 2100-01-01
	}
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: strconv.Itoa(modulus),
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the definition from Redis.
func (s *Store) Load(ctx context.Context, modulus int) (*domain.Definition, error) {
	val, err := s.client.Get(ctx, s.key(modulus)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrAutomatonNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var def domain.Definition
	if err := json.Unmarshal(val, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal automaton: %w", err)
	}
	return &def, nil
}

// Delete removes the definition and its index entry.
func (s *Store) Delete(ctx context.Context, modulus int) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(modulus))
	pipe.ZRem(ctx, s.indexKey(), strconv.Itoa(modulus))

	_, err := pipe.Exec(ctx)
	return err
}

// List returns stored moduli, lazily pruning expired index entries.
func (s *Store) List(ctx context.Context) ([]int, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired automatons: %w", err)
	}

	members, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list automatons: %w", err)
	}

	moduli := make([]int, 0, len(members))
	for _, m := range members {
		n, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("corrupt index entry %q: %w", m, err)
		}
		moduli = append(moduli, n)
	}
	sort.Ints(moduli)
	return moduli, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
