package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	protocolTable  = "protocols"
	protocolFields = "id, type, brand, model, steps, created_at, updated_at"
)

type ProtocolRepositoryInterface interface {
	ListProtocols(ctx context.Context) ([]entities.Protocol, error)
	FindProtocol(ctx context.Context, id string) (*entities.Protocol, error)
	// UpsertProtocol создаёт протокол или перезаписывает существующий с тем же id.
	// created = true, если строки раньше не было.
	UpsertProtocol(ctx context.Context, protocol entities.Protocol) (*entities.Protocol, bool, error)
	ReplaceSteps(ctx context.Context, id string, steps []entities.ProtocolStep) (*entities.Protocol, error)
}

type ProtocolRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewProtocolRepository(storage *pgxpool.Pool, logger *zap.Logger) ProtocolRepositoryInterface {
	return &ProtocolRepository{
		storage: storage,
		logger:  logger,
	}
}

func scanProtocol(row pgx.Row, extra ...any) (*entities.Protocol, error) {
	var p entities.Protocol
	var rawSteps []byte

	dest := []any{&p.ID, &p.Type, &p.Brand, &p.Model, &rawSteps, &p.CreatedAt, &p.UpdatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	p.Steps = []entities.ProtocolStep{}
	if len(rawSteps) > 0 {
		if err := json.Unmarshal(rawSteps, &p.Steps); err != nil {
			return nil, fmt.Errorf("повреждены шаги протокола %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func (r *ProtocolRepository) ListProtocols(ctx context.Context) ([]entities.Protocol, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id ASC", protocolFields, protocolTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]entities.Protocol, 0)
	for rows.Next() {
		p, err := scanProtocol(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProtocolRepository) FindProtocol(ctx context.Context, id string) (*entities.Protocol, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", protocolFields, protocolTable)
	return scanProtocol(r.storage.QueryRow(ctx, query, id))
}

func (r *ProtocolRepository) UpsertProtocol(ctx context.Context, protocol entities.Protocol) (*entities.Protocol, bool, error) {
	stepsJSON, err := json.Marshal(entities.CloneSteps(protocol.Steps))
	if err != nil {
		return nil, false, err
	}

	// xmax = 0 только у только что вставленной строки
	query := fmt.Sprintf(`
		INSERT INTO %s (id, type, brand, model, steps)
		VALUES (@id, @type, @brand, @model, @steps)
		ON CONFLICT (id) DO UPDATE
		SET type = EXCLUDED.type, brand = EXCLUDED.brand, model = EXCLUDED.model,
			steps = EXCLUDED.steps, updated_at = NOW()
		RETURNING %s, (xmax = 0)
	`, protocolTable, protocolFields)

	args := pgx.NamedArgs{
		"id":    protocol.ID,
		"type":  protocol.Type,
		"brand": protocol.Brand,
		"model": protocol.Model,
		"steps": string(stepsJSON),
	}

	var created bool
	saved, err := scanProtocol(r.storage.QueryRow(ctx, query, args), &created)
	if err != nil {
		return nil, false, err
	}
	return saved, created, nil
}

func (r *ProtocolRepository) ReplaceSteps(ctx context.Context, id string, steps []entities.ProtocolStep) (*entities.Protocol, error) {
	stepsJSON, err := json.Marshal(entities.CloneSteps(steps))
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`UPDATE %s SET steps = $1, updated_at = NOW() WHERE id = $2 RETURNING %s`,
		protocolTable, protocolFields)
	return scanProtocol(r.storage.QueryRow(ctx, query, string(stepsJSON), id))
}
