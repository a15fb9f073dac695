package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"maintenance-system/internal/entities"

	"go.uber.org/zap"
)

const (
	protocolCatalogCacheKey      = "base_protocols:catalog"
	protocolCatalogGenerationKey = "base_protocols:catalog:generation"
)

// CachedProtocolRepository держит весь каталог протоколов в кеше.
// Классификация оборудования перечитывает каталог на каждый запрос, а меняется он редко.
// Каталог лежит под ключом текущего поколения, любая запись увеличивает поколение.
// Чтение, начатое до записи, не может положить старый каталог под новое поколение.
// Ошибки кеша не ломают чтение из базы.
type CachedProtocolRepository struct {
	next   ProtocolRepositoryInterface
	cache  CacheRepositoryInterface
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedProtocolRepository(next ProtocolRepositoryInterface, cache CacheRepositoryInterface, ttl time.Duration, logger *zap.Logger) ProtocolRepositoryInterface {
	return &CachedProtocolRepository{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *CachedProtocolRepository) generation(ctx context.Context) (string, error) {
	gen, err := r.cache.Get(ctx, protocolCatalogGenerationKey)
	if errors.Is(err, ErrCacheMiss) {
		return "0", nil
	}
	return gen, err
}

func (r *CachedProtocolRepository) ListProtocols(ctx context.Context) ([]entities.Protocol, error) {
	gen, err := r.generation(ctx)
	if err != nil {
		r.logger.Warn("Кеш каталога протоколов недоступен", zap.Error(err))
		return r.next.ListProtocols(ctx)
	}
	key := protocolCatalogCacheKey + ":" + gen

	raw, err := r.cache.Get(ctx, key)
	if err == nil {
		var cached []entities.Protocol
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			return cached, nil
		}
		r.logger.Warn("Повреждён кеш каталога протоколов, читаем из базы")
	} else if !errors.Is(err, ErrCacheMiss) {
		r.logger.Warn("Кеш каталога протоколов недоступен", zap.Error(err))
	}

	list, err := r.next.ListProtocols(ctx)
	if err != nil {
		return nil, err
	}

	// Пока читали из базы, каталог мог измениться
	if current, err := r.generation(ctx); err != nil || current != gen {
		r.logger.Debug("Каталог протоколов изменился во время чтения, в кеш не кладём",
			zap.String("read_generation", gen), zap.String("current_generation", current))
		return list, nil
	}

	if payload, err := json.Marshal(list); err == nil {
		if err := r.cache.Set(ctx, key, string(payload), r.ttl); err != nil {
			r.logger.Warn("Не удалось записать каталог протоколов в кеш", zap.Error(err))
		}
	}
	return list, nil
}

func (r *CachedProtocolRepository) FindProtocol(ctx context.Context, id string) (*entities.Protocol, error) {
	return r.next.FindProtocol(ctx, id)
}

func (r *CachedProtocolRepository) UpsertProtocol(ctx context.Context, protocol entities.Protocol) (*entities.Protocol, bool, error) {
	saved, created, err := r.next.UpsertProtocol(ctx, protocol)
	if err != nil {
		return nil, false, err
	}
	r.invalidate(ctx)
	return saved, created, nil
}

func (r *CachedProtocolRepository) ReplaceSteps(ctx context.Context, id string, steps []entities.ProtocolStep) (*entities.Protocol, error) {
	saved, err := r.next.ReplaceSteps(ctx, id, steps)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return saved, nil
}

func (r *CachedProtocolRepository) invalidate(ctx context.Context) {
	gen, err := r.cache.Incr(ctx, protocolCatalogGenerationKey)
	if err != nil {
		r.logger.Error("Не удалось сбросить кеш каталога протоколов", zap.Error(err))
		return
	}
	r.logger.Debug("Кеш каталога протоколов сброшен", zap.Int64("generation", gen))
}
