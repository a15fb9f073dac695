package entities

import "github.com/aarondl/null/v8"

// AuditEntry - запись журнала изменений базовых протоколов.
type AuditEntry struct {
	Event       string
	ProtocolID  null.String
	EquipmentID null.Uint64
	ActorID     null.Uint64
	Payload     map[string]interface{}
}
