package repositories

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"maintenance-system/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryCache struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value.(string)
	return nil
}

func (c *memoryCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) Incr(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, _ := strconv.ParseInt(c.data[key], 10, 64)
	n++
	c.data[key] = strconv.FormatInt(n, 10)
	return n, nil
}

type countingProtocolRepo struct {
	protocols []entities.Protocol
	listCalls int
}

func (r *countingProtocolRepo) ListProtocols(context.Context) ([]entities.Protocol, error) {
	r.listCalls++
	return append([]entities.Protocol(nil), r.protocols...), nil
}

func (r *countingProtocolRepo) FindProtocol(_ context.Context, id string) (*entities.Protocol, error) {
	for i := range r.protocols {
		if r.protocols[i].ID == id {
			p := r.protocols[i]
			return &p, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *countingProtocolRepo) UpsertProtocol(_ context.Context, p entities.Protocol) (*entities.Protocol, bool, error) {
	r.protocols = append(r.protocols, p)
	return &p, true, nil
}

func (r *countingProtocolRepo) ReplaceSteps(_ context.Context, id string, steps []entities.ProtocolStep) (*entities.Protocol, error) {
	for i := range r.protocols {
		if r.protocols[i].ID == id {
			r.protocols[i].Steps = steps
			p := r.protocols[i]
			return &p, nil
		}
	}
	return nil, errors.New("not found")
}

func TestCachedProtocolRepository_ServesFromCacheUntilWrite(t *testing.T) {
	inner := &countingProtocolRepo{protocols: []entities.Protocol{{ID: "a", Type: "Domo"}}}
	repo := NewCachedProtocolRepository(inner, newMemoryCache(), time.Minute, zap.NewNop())
	ctx := context.Background()

	first, err := repo.ListProtocols(ctx)
	require.NoError(t, err)
	second, err := repo.ListProtocols(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.listCalls)

	_, _, err = repo.UpsertProtocol(ctx, entities.Protocol{ID: "b", Type: "Bala"})
	require.NoError(t, err)

	third, err := repo.ListProtocols(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 2)
	assert.Equal(t, 2, inner.listCalls)

	_, err = repo.ReplaceSteps(ctx, "a", []entities.ProtocolStep{{Step: "x"}})
	require.NoError(t, err)
	_, err = repo.ListProtocols(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, inner.listCalls)
}

func TestCachedProtocolRepository_CacheFailureFallsBackToStore(t *testing.T) {
	inner := &countingProtocolRepo{protocols: []entities.Protocol{{ID: "a"}}}
	cache := newMemoryCache()
	cache.getErr = errors.New("redis down")
	repo := NewCachedProtocolRepository(inner, cache, time.Minute, zap.NewNop())

	list, err := repo.ListProtocols(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

// blockingProtocolRepo отдаёт снимок каталога, сделанный до остановки на gate.
// Так чтение из базы "застревает" и заканчивается уже после чужой записи.
type blockingProtocolRepo struct {
	mu        sync.Mutex
	protocols []entities.Protocol
	block     bool
	started   chan struct{}
	release   chan struct{}
}

func (r *blockingProtocolRepo) ListProtocols(context.Context) ([]entities.Protocol, error) {
	r.mu.Lock()
	snapshot := append([]entities.Protocol(nil), r.protocols...)
	block := r.block
	r.block = false
	r.mu.Unlock()

	if block {
		close(r.started)
		<-r.release
	}
	return snapshot, nil
}

func (r *blockingProtocolRepo) FindProtocol(context.Context, string) (*entities.Protocol, error) {
	return nil, errors.New("not implemented")
}

func (r *blockingProtocolRepo) UpsertProtocol(_ context.Context, p entities.Protocol) (*entities.Protocol, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.protocols = append(r.protocols, p)
	return &p, true, nil
}

func (r *blockingProtocolRepo) ReplaceSteps(context.Context, string, []entities.ProtocolStep) (*entities.Protocol, error) {
	return nil, errors.New("not implemented")
}

func TestCachedProtocolRepository_ReadOverlappingWriteDoesNotCacheOldCatalog(t *testing.T) {
	inner := &blockingProtocolRepo{
		block:   true,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	repo := NewCachedProtocolRepository(inner, newMemoryCache(), time.Hour, zap.NewNop())
	ctx := context.Background()

	type result struct {
		list []entities.Protocol
		err  error
	}
	done := make(chan result, 1)
	go func() {
		list, err := repo.ListProtocols(ctx)
		done <- result{list, err}
	}()

	<-inner.started
	_, _, err := repo.UpsertProtocol(ctx, entities.Protocol{ID: "domo-ptz-hikvision-ds-2", Type: "Domo PTZ"})
	require.NoError(t, err)
	close(inner.release)

	overlapping := <-done
	require.NoError(t, overlapping.err)
	assert.Empty(t, overlapping.list, "чтение началось до записи")

	fresh, err := repo.ListProtocols(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 1, "после завершённой записи кеш не должен отдавать старый каталог")
	assert.Equal(t, "domo-ptz-hikvision-ds-2", fresh[0].ID)
}
