package seeders

import (
	"context"
	"fmt"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SeedDemo наполняет базу демо-оборудованием (в одной транзакции) и базовыми протоколами.
// Повторный запуск обновляет протоколы, а оборудование добавляет только в пустую таблицу.
func SeedDemo(
	ctx context.Context,
	txManager repositories.TxManagerInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	protocolRepo repositories.ProtocolRepositoryInterface,
	logger *zap.Logger,
) error {
	logger.Info("▶️  Наполнение демо-данными...")

	existing, err := equipmentRepo.ListEquipment(ctx, entities.EquipmentFilter{})
	if err != nil {
		return fmt.Errorf("не удалось прочитать оборудование: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("  - Оборудование уже есть, пропускаем", zap.Int("count", len(existing)))
	} else if err := seedEquipments(ctx, txManager, equipmentRepo); err != nil {
		return fmt.Errorf("ошибка наполнения оборудования: %w", err)
	}

	for _, p := range protocolsData {
		p.ID = services.ProtocolID(p.Type, p.Brand, p.Model)
		p.Steps = services.SanitizeSteps(p.Steps)
		_, created, err := protocolRepo.UpsertProtocol(ctx, p)
		if err != nil {
			return fmt.Errorf("ошибка сохранения протокола %s: %w", p.ID, err)
		}
		logger.Info("  - Протокол сохранён", zap.String("id", p.ID), zap.Bool("created", created))
	}

	logger.Info("✅ Демо-данные готовы")
	return nil
}

func seedEquipments(ctx context.Context, txManager repositories.TxManagerInterface, equipmentRepo repositories.EquipmentRepositoryInterface) error {
	return txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		for _, s := range equipmentsData {
			e := entities.Equipment{
				Name:     s.Name,
				Type:     s.Type,
				Brand:    s.Brand,
				Model:    s.Model,
				Serial:   s.Serial,
				Location: s.Location,
				Status:   s.Status,
			}
			if s.ClientID != 0 {
				e.ClientID = null.Uint64From(s.ClientID)
			}
			if s.SystemID != 0 {
				e.SystemID = null.Uint64From(s.SystemID)
			}
			if _, err := equipmentRepo.CreateEquipment(ctx, tx, &e); err != nil {
				return fmt.Errorf("оборудование '%s': %w", s.Name, err)
			}
		}
		return nil
	})
}
