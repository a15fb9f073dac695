package services

import (
	"context"
	"strings"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	apperrors "maintenance-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

// LinkService - ручная отвязка оборудования от протокола и её отмена.
// Отвязка хранится в linked_protocol_id, поле type не трогается.
type LinkService struct {
	deps   WorkflowDeps
	logger *zap.Logger
}

func NewLinkService(deps WorkflowDeps) *LinkService {
	return &LinkService{deps: deps, logger: deps.Logger.Named("link")}
}

// Unlink отвязывает оборудование. Нужны явное подтверждение и текущая привязка.
func (s *LinkService) Unlink(ctx context.Context, equipmentID uint64, confirmed bool) (*entities.Equipment, error) {
	if equipmentID == 0 {
		return nil, apperrors.NewValidationError("не выбрано оборудование для отвязки")
	}
	if !confirmed {
		return nil, apperrors.NewValidationError("отвязку нужно подтвердить")
	}

	equipment, err := s.deps.EquipmentRepo.FindEquipment(ctx, equipmentID)
	if err != nil {
		return nil, wrapRead("find_equipment", err)
	}
	protocols, err := s.deps.ProtocolRepo.ListProtocols(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list_protocols", err)
	}

	protocol, linked := newProtocolIndex(protocols).match(*equipment)
	if !linked {
		return nil, apperrors.NewValidationError("оборудование %d не привязано к протоколу", equipmentID)
	}

	marker := null.StringFrom(entities.UnlinkedProtocolMarker)
	updated, err := s.deps.EquipmentRepo.UpdateEquipment(ctx, equipmentID, entities.EquipmentPatch{LinkedProtocolID: &marker})
	if err != nil {
		s.logger.Error("Не удалось отвязать оборудование", zap.Uint64("equipment_id", equipmentID), zap.Error(err))
		return nil, apperrors.NewPersistenceError("update_equipment", err)
	}

	s.logger.Info("Оборудование отвязано от протокола",
		zap.Uint64("equipment_id", equipmentID),
		zap.String("protocol_id", protocol.ID),
	)
	s.deps.linkChanged("unlink")
	s.deps.publish(ctx, events.EquipmentUnlinkedEvent{
		EquipmentID: equipmentID,
		ProtocolID:  protocol.ID,
		ActorID:     actorID(ctx),
		At:          time.Now(),
	})
	return updated, nil
}

// Relink снимает ручную привязку или отвязку. Старые записи с префиксом UNLINKED_ в type чинятся.
func (s *LinkService) Relink(ctx context.Context, equipmentID uint64) (*entities.Equipment, error) {
	if equipmentID == 0 {
		return nil, apperrors.NewValidationError("не выбрано оборудование")
	}

	equipment, err := s.deps.EquipmentRepo.FindEquipment(ctx, equipmentID)
	if err != nil {
		return nil, wrapRead("find_equipment", err)
	}

	var patch entities.EquipmentPatch
	if equipment.LinkedProtocolID.Valid {
		cleared := null.String{}
		patch.LinkedProtocolID = &cleared
	}
	if equipment.HasLegacyUnlinkedType() {
		original := strings.TrimPrefix(equipment.Type, entities.LegacyUnlinkedTypePrefix)
		patch.Type = &original
	}
	if patch.LinkedProtocolID == nil && patch.Type == nil {
		return nil, apperrors.NewValidationError("оборудование %d не отвязано вручную", equipmentID)
	}

	updated, err := s.deps.EquipmentRepo.UpdateEquipment(ctx, equipmentID, patch)
	if err != nil {
		s.logger.Error("Не удалось вернуть привязку оборудования", zap.Uint64("equipment_id", equipmentID), zap.Error(err))
		return nil, apperrors.NewPersistenceError("update_equipment", err)
	}

	s.deps.linkChanged("relink")
	s.deps.publish(ctx, events.EquipmentRelinkedEvent{
		EquipmentID: equipmentID,
		ActorID:     actorID(ctx),
		At:          time.Now(),
	})
	return updated, nil
}
