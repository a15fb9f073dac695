package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	equipmentTable  = "equipments"
	equipmentFields = "id, name, description, brand, model, type, serial, location, status, image_url, client_id, system_id, linked_protocol_id, created_at, updated_at"
)

var equipmentSearchColumns = []string{"name", "brand", "model", "type", "serial", "location"}

type EquipmentRepositoryInterface interface {
	ListEquipment(ctx context.Context, filter entities.EquipmentFilter) ([]entities.Equipment, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uint64, patch entities.EquipmentPatch) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, tx pgx.Tx, equipment *entities.Equipment) (uint64, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{
		storage: storage,
		logger:  logger,
	}
}

func (r *EquipmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Brand, &e.Model, &e.Type,
		&e.Serial, &e.Location, &e.Status, &e.ImageURL,
		&e.ClientID, &e.SystemID, &e.LinkedProtocolID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// applyEquipmentFilter переводит фильтры экрана в условия WHERE.
func applyEquipmentFilter(b sq.SelectBuilder, filter entities.EquipmentFilter) sq.SelectBuilder {
	if filter.ClientID != nil {
		b = b.Where(sq.Eq{"client_id": *filter.ClientID})
	}
	if filter.SystemID != nil {
		b = b.Where(sq.Eq{"system_id": *filter.SystemID})
	}
	if filter.Warehouse != nil {
		if *filter.Warehouse {
			b = b.Where(sq.Eq{"status": entities.EquipmentStatusWarehouse})
		} else {
			b = b.Where(sq.NotEq{"status": entities.EquipmentStatusWarehouse})
		}
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pat := "%" + search + "%"
		or := sq.Or{}
		for _, col := range equipmentSearchColumns {
			or = append(or, sq.ILike{col: pat})
		}
		b = b.Where(or)
	}
	return b
}

func (r *EquipmentRepository) ListEquipment(ctx context.Context, filter entities.EquipmentFilter) ([]entities.Equipment, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := applyEquipmentFilter(psql.Select(equipmentFields).From(equipmentTable), filter).OrderBy("id ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ошибка сборки запроса оборудования: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", equipmentFields, equipmentTable)
	return scanEquipment(r.storage.QueryRow(ctx, query, id))
}

// UpdateEquipment обновляет только переданные поля. Пустой patch просто читает запись.
func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, id uint64, patch entities.EquipmentPatch) (*entities.Equipment, error) {
	var setClauses []string
	args := pgx.NamedArgs{"id": id}

	if patch.Type != nil {
		setClauses = append(setClauses, "type = @type")
		args["type"] = *patch.Type
	}
	if patch.LinkedProtocolID != nil {
		setClauses = append(setClauses, "linked_protocol_id = @linked_protocol_id")
		args["linked_protocol_id"] = *patch.LinkedProtocolID
	}

	if len(setClauses) == 0 {
		return r.FindEquipment(ctx, id)
	}

	query := fmt.Sprintf(`UPDATE %s SET updated_at = NOW(), %s WHERE id = @id RETURNING %s`,
		equipmentTable, strings.Join(setClauses, ", "), equipmentFields)

	return scanEquipment(r.storage.QueryRow(ctx, query, args))
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, tx pgx.Tx, e *entities.Equipment) (uint64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, description, brand, model, type, serial, location, status, image_url, client_id, system_id, linked_protocol_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`, equipmentTable)

	var id uint64
	err := r.getQuerier(tx).QueryRow(ctx, query,
		e.Name, e.Description, e.Brand, e.Model, e.Type,
		e.Serial, e.Location, e.Status, e.ImageURL,
		e.ClientID, e.SystemID, e.LinkedProtocolID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}
