package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"maintenance-system/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
)

const auditTable = "protocol_audit_log"

type AuditRepositoryInterface interface {
	Insert(ctx context.Context, entry entities.AuditEntry) error
}

type AuditRepository struct {
	storage *pgxpool.Pool
}

func NewAuditRepository(storage *pgxpool.Pool) AuditRepositoryInterface {
	return &AuditRepository{storage: storage}
}

func (r *AuditRepository) Insert(ctx context.Context, entry entities.AuditEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`INSERT INTO %s (event, protocol_id, equipment_id, actor_id, payload) VALUES ($1, $2, $3, $4, $5)`, auditTable)
	_, err = r.storage.Exec(ctx, query, entry.Event, entry.ProtocolID, entry.EquipmentID, entry.ActorID, string(payload))
	return err
}
