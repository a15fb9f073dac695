package dto

import (
	"github.com/aarondl/null/v8"
)

// ----- Запросы -----

type SelectReferenceDTO struct {
	EquipmentID uint64      `json:"equipment_id" validate:"required,gt=0"`
	ClientID    null.Uint64 `json:"client_id"    validate:"omitempty,gt=0"`
	SystemID    null.Uint64 `json:"system_id"    validate:"omitempty,gt=0"`
	Warehouse   null.Bool   `json:"warehouse"`
	Search      string      `json:"search"       validate:"omitempty,max=100"`
}

type ToggleCandidateDTO struct {
	Confirmed bool `json:"confirmed"`
}

type ManualSelectionDTO struct {
	EquipmentIDs []uint64 `json:"equipment_ids" validate:"dive,gt=0"`
}

type CreateStepDTO struct {
	Step       string       `json:"step"       validate:"required,max=500"`
	Priority   null.String  `json:"priority"   validate:"omitempty,step_priority"`
	Percentage null.Float64 `json:"percentage" validate:"omitempty,gte=0,lte=100"`
	Notes      string       `json:"notes"      validate:"omitempty,max=2000"`
	ImageURL   string       `json:"imageUrl"   validate:"omitempty,max=1000"`
}

type UpdateStepDTO struct {
	Step       null.String  `json:"step"       validate:"omitempty,min=1,max=500"`
	Priority   null.String  `json:"priority"   validate:"omitempty,step_priority"`
	Percentage null.Float64 `json:"percentage" validate:"omitempty,gte=0,lte=100"`
	Notes      null.String  `json:"notes"      validate:"omitempty,max=2000"`
}

type UnlinkEquipmentDTO struct {
	Confirmed bool `json:"confirmed"`
}

type OpenEditorDTO struct {
	EquipmentID uint64 `json:"equipment_id" validate:"required,gt=0"`
}

// ----- Ответы -----

type BaseEquipmentDTO struct {
	ID               uint64      `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description"`
	Brand            string      `json:"brand"`
	Model            string      `json:"model"`
	Type             string      `json:"type"`
	Serial           string      `json:"serial"`
	Location         string      `json:"location"`
	Status           string      `json:"status"`
	ImageURL         string      `json:"image_url"`
	ClientID         null.Uint64 `json:"client_id"`
	SystemID         null.Uint64 `json:"system_id"`
	LinkedProtocolID null.String `json:"linked_protocol_id"`
}

type ProtocolStepDTO struct {
	Step       string  `json:"step"`
	Priority   string  `json:"priority"`
	Percentage float64 `json:"percentage"`
	Completion float64 `json:"completion"`
	Notes      string  `json:"notes"`
	ImageURL   string  `json:"imageUrl"`
}

type BaseProtocolDTO struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	Brand     string            `json:"brand"`
	Model     string            `json:"model"`
	Steps     []ProtocolStepDTO `json:"steps"`
	CreatedAt string            `json:"created_at,omitempty"`
	UpdatedAt string            `json:"updated_at,omitempty"`
}

type LinkedEquipmentDTO struct {
	BaseEquipmentDTO
	ProtocolID string `json:"protocol_id"`
}

type ClassificationDTO struct {
	WithProtocol    []LinkedEquipmentDTO `json:"with_protocol"`
	WithoutProtocol []BaseEquipmentDTO   `json:"without_protocol"`
}

type WorkflowDTO struct {
	SessionID           string             `json:"session_id"`
	State               string             `json:"state"`
	Reference           *BaseEquipmentDTO  `json:"reference"`
	Similar             []BaseEquipmentDTO `json:"similar"`
	Confirmed           []uint64           `json:"confirmed"`
	ManualSelection     []uint64           `json:"manual_selection"`
	Steps               []ProtocolStepDTO  `json:"steps"`
	ProtocolID          string             `json:"protocol_id,omitempty"`
	SuggestionInFlight  bool               `json:"suggestion_in_flight"`
	GeneratingStepIndex *int               `json:"generating_step_index"`
	LastSaved           *BaseProtocolDTO   `json:"last_saved,omitempty"`
}

type EditorDTO struct {
	SessionID           string            `json:"session_id"`
	Open                bool              `json:"open"`
	Equipment           *BaseEquipmentDTO `json:"equipment"`
	ProtocolID          string            `json:"protocol_id"`
	Steps               []ProtocolStepDTO `json:"steps"`
	GeneratingStepIndex *int              `json:"generating_step_index"`
}

type SaveProtocolResultDTO struct {
	Protocol BaseProtocolDTO `json:"protocol"`
	Created  bool            `json:"created"`
}
