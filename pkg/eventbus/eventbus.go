package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Event interface {
	Name() string
}

type Listener func(ctx context.Context, event Event) error

const listenerTimeout = time.Minute

// Bus - внутрипроцессная шина событий. Слушатели выполняются асинхронно,
// Publish не ждёт их завершения.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]Listener
	inFlight  sync.WaitGroup
	logger    *zap.Logger
}

func New(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[string][]Listener),
		logger:    logger,
	}
}

func (b *Bus) Subscribe(eventName string, listener Listener) {
	b.mu.Lock()
	b.listeners[eventName] = append(b.listeners[eventName], listener)
	b.mu.Unlock()
}

// Publish запускает каждого подписчика в своей горутине. Отмена ctx запроса
// на слушателей не распространяется, у них свой таймаут.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	subscribers := b.listeners[event.Name()]
	b.mu.RUnlock()

	detached := context.WithoutCancel(ctx)
	for _, listener := range subscribers {
		b.inFlight.Add(1)
		go b.deliver(detached, listener, event)
	}
}

func (b *Bus) deliver(ctx context.Context, listener Listener, event Event) {
	defer b.inFlight.Done()

	ctx, cancel := context.WithTimeout(ctx, listenerTimeout)
	defer cancel()

	started := time.Now()
	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("паника в обработчике: %v", p)
			}
		}()
		return listener(ctx, event)
	}()

	if err != nil {
		b.logger.Error("Ошибка в обработчике события",
			zap.String("event", event.Name()),
			zap.Duration("took", time.Since(started)),
			zap.Error(err),
		)
	}
}

// Wait ждёт всех запущенных слушателей. Вызывается при остановке сервера.
func (b *Bus) Wait() {
	b.inFlight.Wait()
}
