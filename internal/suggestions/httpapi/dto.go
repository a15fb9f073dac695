package httpapi

import "maintenance-system/internal/suggestions"

type similarRequest struct {
	Reference suggestions.EquipmentDescriptor   `json:"reference"`
	Pool      []suggestions.EquipmentDescriptor `json:"pool"`
}

type stepsRequest struct {
	Equipment suggestions.EquipmentDescriptor `json:"equipment"`
}

type stepsResponse struct {
	Steps []suggestions.GeneratedStep `json:"steps"`
}

type imageRequest struct {
	Equipment suggestions.EquipmentDescriptor `json:"equipment"`
	Step      string                          `json:"step"`
}

type imageResponse struct {
	ImageURL string `json:"imageUrl"`
}
