package repositories

import (
	"context"
	"os"
	"testing"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/database/postgresql"
	apperrors "maintenance-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestPool подключается к тестовой БД из TEST_DATABASE_URL и накатывает миграции.
// Без переменной окружения интеграционные тесты пропускаются.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан, пропускаем интеграционный тест")
	}

	ctx := context.Background()
	pool, err := postgresql.ConnectDB(ctx, dsn, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgresql.Migrate(ctx, pool))
	cleanupTables(t, pool)
	return pool
}

// cleanupTables очищает таблицы для обеспечения изоляции тестов.
func cleanupTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `TRUNCATE TABLE equipments, protocols, protocol_audit_log RESTART IDENTITY CASCADE;`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

func TestProtocolRepository_UpsertCreatesThenUpdates(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewProtocolRepository(pool, zap.NewNop())
	ctx := context.Background()

	p := entities.Protocol{
		ID: "domo-ptz-hikvision-ds-2", Type: "Domo PTZ", Brand: "Hikvision", Model: "DS-2",
		Steps: []entities.ProtocolStep{{Step: "Limpiar lente", Priority: entities.PriorityHigh, Percentage: 50}},
	}

	saved, created, err := repo.UpsertProtocol(ctx, p)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, saved.Steps, 1)

	p.Steps = append(p.Steps, entities.ProtocolStep{Step: "Revisar PTZ", Priority: entities.PriorityLow})
	saved, created, err = repo.UpsertProtocol(ctx, p)
	require.NoError(t, err)
	assert.False(t, created, "повторное сохранение должно обновлять, а не создавать")
	assert.Len(t, saved.Steps, 2)

	list, err := repo.ListProtocols(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProtocolRepository_ReplaceStepsUnknownID(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewProtocolRepository(pool, zap.NewNop())

	_, err := repo.ReplaceSteps(context.Background(), "no-such-protocol", []entities.ProtocolStep{{Step: "x"}})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEquipmentRepository_FiltersAndPatch(t *testing.T) {
	pool := setupTestPool(t)
	repo := NewEquipmentRepository(pool, zap.NewNop())
	tx := NewTxManager(pool)
	ctx := context.Background()

	var inStock, active uint64
	err := tx.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		inStock, err = repo.CreateEquipment(ctx, tx, &entities.Equipment{
			Name: "Cámara bodega", Type: "Bala", Brand: "Dahua", Model: "B1",
			Status: entities.EquipmentStatusWarehouse,
		})
		if err != nil {
			return err
		}
		active, err = repo.CreateEquipment(ctx, tx, &entities.Equipment{
			Name: "Domo entrada", Type: "Domo PTZ", Brand: "Hikvision", Model: "DS-2",
			Status: entities.EquipmentStatusActive, ClientID: null.Uint64From(7),
		})
		return err
	})
	require.NoError(t, err)

	warehouse := true
	list, err := repo.ListEquipment(ctx, entities.EquipmentFilter{Warehouse: &warehouse})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inStock, list[0].ID)

	client := uint64(7)
	list, err = repo.ListEquipment(ctx, entities.EquipmentFilter{ClientID: &client, Search: "hikv"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, active, list[0].ID)

	marker := null.StringFrom(entities.UnlinkedProtocolMarker)
	updated, err := repo.UpdateEquipment(ctx, active, entities.EquipmentPatch{LinkedProtocolID: &marker})
	require.NoError(t, err)
	assert.True(t, updated.IsExplicitlyUnlinked())
	assert.Equal(t, "Domo PTZ", updated.Type, "тип не должен меняться при отвязке")

	_, err = repo.FindEquipment(ctx, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
