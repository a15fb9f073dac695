package entities

import (
	"strings"

	"maintenance-system/pkg/types"

	"github.com/aarondl/null/v8"
)

// Статусы жизненного цикла оборудования
const (
	EquipmentStatusActive      = "activo"
	EquipmentStatusWarehouse   = "en_almacen"
	EquipmentStatusInRepair    = "en_reparacion"
	EquipmentStatusDecommision = "retirado"
)

// UnlinkedProtocolMarker - значение linked_protocol_id, означающее явную отвязку
// оборудования от любого протокола. NULL означает "искать протокол по типу/марке/модели".
const UnlinkedProtocolMarker = "__unlinked__"

// LegacyUnlinkedTypePrefix - старый способ отвязки через порчу поля type.
// Новые записи так не отвязываются, но такие строки ещё встречаются в базе.
const LegacyUnlinkedTypePrefix = "UNLINKED_"

type Equipment struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Type        string `json:"type"`
	Serial      string `json:"serial"`
	Location    string `json:"location"`
	Status      string `json:"status"`
	ImageURL    string `json:"image_url"`

	ClientID         null.Uint64 `json:"client_id"`
	SystemID         null.Uint64 `json:"system_id"`
	LinkedProtocolID null.String `json:"linked_protocol_id"`

	types.BaseEntity
}

// IsExplicitlyUnlinked - оборудование вручную отвязано от протокола.
func (e *Equipment) IsExplicitlyUnlinked() bool {
	return e.LinkedProtocolID.Valid && e.LinkedProtocolID.String == UnlinkedProtocolMarker
}

// HasLegacyUnlinkedType - тип испорчен старой отвязкой, по такому типу протокол не строится.
func (e *Equipment) HasLegacyUnlinkedType() bool {
	return strings.HasPrefix(e.Type, LegacyUnlinkedTypePrefix)
}

// PinnedProtocolID возвращает id протокола, к которому оборудование привязано явно.
func (e *Equipment) PinnedProtocolID() (string, bool) {
	if !e.LinkedProtocolID.Valid || e.LinkedProtocolID.String == UnlinkedProtocolMarker || e.LinkedProtocolID.String == "" {
		return "", false
	}
	return e.LinkedProtocolID.String, true
}

// EquipmentPatch - частичное обновление оборудования. nil-поля не трогаются.
type EquipmentPatch struct {
	Type             *string
	LinkedProtocolID *null.String
}

// EquipmentFilter - фильтры списка оборудования на экране "Протоколы Base".
type EquipmentFilter struct {
	ClientID  *uint64
	SystemID  *uint64
	Warehouse *bool
	Search    string
}
