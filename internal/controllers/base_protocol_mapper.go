package controllers

import (
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
)

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toEquipmentDTO(e entities.Equipment) dto.BaseEquipmentDTO {
	return dto.BaseEquipmentDTO{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		Brand:            e.Brand,
		Model:            e.Model,
		Type:             e.Type,
		Serial:           e.Serial,
		Location:         e.Location,
		Status:           e.Status,
		ImageURL:         e.ImageURL,
		ClientID:         e.ClientID,
		SystemID:         e.SystemID,
		LinkedProtocolID: e.LinkedProtocolID,
	}
}

func toEquipmentDTOs(list []entities.Equipment) []dto.BaseEquipmentDTO {
	out := make([]dto.BaseEquipmentDTO, len(list))
	for i, e := range list {
		out[i] = toEquipmentDTO(e)
	}
	return out
}

func toStepDTOs(steps []entities.ProtocolStep) []dto.ProtocolStepDTO {
	out := make([]dto.ProtocolStepDTO, len(steps))
	for i, s := range steps {
		out[i] = dto.ProtocolStepDTO{
			Step:       s.Step,
			Priority:   s.Priority,
			Percentage: s.Percentage,
			Completion: s.Completion,
			Notes:      s.Notes,
			ImageURL:   s.ImageURL,
		}
	}
	return out
}

func toProtocolDTO(p entities.Protocol) dto.BaseProtocolDTO {
	return dto.BaseProtocolDTO{
		ID:        p.ID,
		Type:      p.Type,
		Brand:     p.Brand,
		Model:     p.Model,
		Steps:     toStepDTOs(p.Steps),
		CreatedAt: formatTime(p.CreatedAt),
		UpdatedAt: formatTime(p.UpdatedAt),
	}
}

func toClassificationDTO(result services.ClassificationResult) dto.ClassificationDTO {
	res := dto.ClassificationDTO{
		WithProtocol:    make([]dto.LinkedEquipmentDTO, len(result.WithProtocol)),
		WithoutProtocol: toEquipmentDTOs(result.WithoutProtocol),
	}
	for i, item := range result.WithProtocol {
		res.WithProtocol[i] = dto.LinkedEquipmentDTO{
			BaseEquipmentDTO: toEquipmentDTO(item.Equipment),
			ProtocolID:       item.Protocol.ID,
		}
	}
	return res
}

func toWorkflowDTO(sessionID string, snap services.GroupingSnapshot) dto.WorkflowDTO {
	res := dto.WorkflowDTO{
		SessionID:           sessionID,
		State:               string(snap.State),
		Similar:             toEquipmentDTOs(snap.Similar),
		Confirmed:           snap.Confirmed,
		ManualSelection:     snap.ManualSelection,
		Steps:               toStepDTOs(snap.Steps),
		ProtocolID:          snap.ProtocolID,
		SuggestionInFlight:  snap.SuggestionInFlight,
		GeneratingStepIndex: snap.GeneratingStepIndex,
	}
	if snap.Reference != nil {
		ref := toEquipmentDTO(*snap.Reference)
		res.Reference = &ref
	}
	if snap.LastSaved != nil {
		saved := toProtocolDTO(*snap.LastSaved)
		res.LastSaved = &saved
	}
	return res
}

func toEditorDTO(sessionID string, snap services.EditorSnapshot) dto.EditorDTO {
	res := dto.EditorDTO{
		SessionID:           sessionID,
		Open:                snap.Open,
		ProtocolID:          snap.ProtocolID,
		Steps:               toStepDTOs(snap.Steps),
		GeneratingStepIndex: snap.GeneratingStepIndex,
	}
	if snap.Equipment != nil {
		eq := toEquipmentDTO(*snap.Equipment)
		res.Equipment = &eq
	}
	return res
}

func createStepFromDTO(d dto.CreateStepDTO) entities.ProtocolStep {
	return entities.ProtocolStep{
		Step:       d.Step,
		Priority:   d.Priority.String,
		Percentage: d.Percentage.Float64,
		Notes:      d.Notes,
		ImageURL:   d.ImageURL,
	}
}

func stepPatchFromDTO(d dto.UpdateStepDTO) services.StepPatch {
	var patch services.StepPatch
	if d.Step.Valid {
		patch.Step = &d.Step.String
	}
	if d.Priority.Valid {
		patch.Priority = &d.Priority.String
	}
	if d.Percentage.Valid {
		patch.Percentage = &d.Percentage.Float64
	}
	if d.Notes.Valid {
		patch.Notes = &d.Notes.String
	}
	return patch
}
