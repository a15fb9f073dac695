package listeners

import (
	"context"
	"fmt"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/eventbus"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

// AuditListener пишет в журнал каждое сохранение протокола и каждую смену привязки оборудования.
type AuditListener struct {
	auditRepo repositories.AuditRepositoryInterface
	logger    *zap.Logger
}

func NewAuditListener(auditRepo repositories.AuditRepositoryInterface, logger *zap.Logger) *AuditListener {
	return &AuditListener{auditRepo: auditRepo, logger: logger}
}

func (l *AuditListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.ProtocolSavedEventName, l.handle)
	bus.Subscribe(events.EquipmentUnlinkedEventName, l.handle)
	bus.Subscribe(events.EquipmentRelinkedEventName, l.handle)
	l.logger.Info("AuditListener подписан на события базовых протоколов")
}

func (l *AuditListener) handle(ctx context.Context, event eventbus.Event) error {
	entry, ok := auditEntryFor(event)
	if !ok {
		return nil
	}
	if err := l.auditRepo.Insert(ctx, entry); err != nil {
		return fmt.Errorf("запись журнала %s: %w", event.Name(), err)
	}
	l.logger.Debug("Событие записано в журнал", zap.String("event", event.Name()))
	return nil
}

func actor(id uint64) null.Uint64 {
	if id == 0 {
		return null.Uint64{}
	}
	return null.Uint64From(id)
}

func auditEntryFor(event eventbus.Event) (entities.AuditEntry, bool) {
	switch e := event.(type) {
	case events.ProtocolSavedEvent:
		return entities.AuditEntry{
			Event:      e.Name(),
			ProtocolID: null.StringFrom(e.ProtocolID),
			ActorID:    actor(e.ActorID),
			Payload: map[string]interface{}{
				"created":       e.Created,
				"mode":          e.Mode,
				"equipment_ids": e.EquipmentIDs,
				"step_count":    e.StepCount,
				"at":            e.At.Format(time.RFC3339),
			},
		}, true
	case events.EquipmentUnlinkedEvent:
		return entities.AuditEntry{
			Event:       e.Name(),
			ProtocolID:  null.StringFrom(e.ProtocolID),
			EquipmentID: null.Uint64From(e.EquipmentID),
			ActorID:     actor(e.ActorID),
			Payload:     map[string]interface{}{"at": e.At.Format(time.RFC3339)},
		}, true
	case events.EquipmentRelinkedEvent:
		return entities.AuditEntry{
			Event:       e.Name(),
			EquipmentID: null.Uint64From(e.EquipmentID),
			ActorID:     actor(e.ActorID),
			Payload:     map[string]interface{}{"at": e.At.Format(time.RFC3339)},
		}, true
	}
	return entities.AuditEntry{}, false
}
