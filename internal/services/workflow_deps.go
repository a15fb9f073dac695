package services

import (
	"context"
	"errors"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/suggestions"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/metrics"
	"maintenance-system/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WorkflowDeps - общие зависимости мастера группировки, редактора и операций привязки.
// Bus и Metrics могут быть nil.
type WorkflowDeps struct {
	EquipmentRepo repositories.EquipmentRepositoryInterface
	ProtocolRepo  repositories.ProtocolRepositoryInterface
	Provider      suggestions.Provider
	Bus           *eventbus.Bus
	Metrics       *metrics.Metrics
	CallTimeout   time.Duration
	Logger        *zap.Logger
}

func (d WorkflowDeps) suggestionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.CallTimeout > 0 {
		return context.WithTimeout(ctx, d.CallTimeout)
	}
	return context.WithCancel(ctx)
}

func (d WorkflowDeps) publish(ctx context.Context, event eventbus.Event) {
	if d.Bus != nil {
		d.Bus.Publish(ctx, event)
	}
}

func (d WorkflowDeps) protocolSaved(mode string, created bool) {
	if d.Metrics != nil {
		d.Metrics.ProtocolSaved(mode, created)
	}
}

func (d WorkflowDeps) linkChanged(action string) {
	if d.Metrics != nil {
		d.Metrics.EquipmentLinkChanged(action)
	}
}

// actorID - пользователь из контекста запроса, 0 если его нет (например, в CLI).
func actorID(ctx context.Context) uint64 {
	id, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return 0
	}
	return id
}

type catalogSnapshot struct {
	equipment []entities.Equipment
	protocols []entities.Protocol
}

// loadCatalog параллельно читает оборудование и протоколы.
func (d WorkflowDeps) loadCatalog(ctx context.Context, filter entities.EquipmentFilter) (*catalogSnapshot, error) {
	var snap catalogSnapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := d.EquipmentRepo.ListEquipment(gctx, filter)
		if err != nil {
			return apperrors.NewPersistenceError("list_equipment", err)
		}
		snap.equipment = list
		return nil
	})
	g.Go(func() error {
		list, err := d.ProtocolRepo.ListProtocols(gctx)
		if err != nil {
			return apperrors.NewPersistenceError("list_protocols", err)
		}
		snap.protocols = list
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func findByID(list []entities.Equipment, id uint64) (entities.Equipment, bool) {
	for _, e := range list {
		if e.ID == id {
			return e, true
		}
	}
	return entities.Equipment{}, false
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// wrapRead оставляет ErrNotFound как есть, остальные ошибки чтения считает ошибками хранилища.
func wrapRead(operation string, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	return apperrors.NewPersistenceError(operation, err)
}
