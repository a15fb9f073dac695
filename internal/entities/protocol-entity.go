package entities

import (
	"maintenance-system/pkg/types"
)

// Приоритеты шага протокола
const (
	PriorityLow    = "baja"
	PriorityMedium = "media"
	PriorityHigh   = "alta"
)

func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type ProtocolStep struct {
	Step       string  `json:"step"`
	Priority   string  `json:"priority"`
	Percentage float64 `json:"percentage"`
	Completion float64 `json:"completion"`
	Notes      string  `json:"notes"`
	ImageURL   string  `json:"imageUrl"`
}

// Protocol - базовый протокол обслуживания. ID выводится из (type, brand, model).
type Protocol struct {
	ID    string         `json:"id"`
	Type  string         `json:"type"`
	Brand string         `json:"brand"`
	Model string         `json:"model"`
	Steps []ProtocolStep `json:"steps"`

	types.BaseEntity
}

// CloneSteps возвращает независимую копию шагов.
func CloneSteps(steps []ProtocolStep) []ProtocolStep {
	if steps == nil {
		return []ProtocolStep{}
	}
	out := make([]ProtocolStep, len(steps))
	copy(out, steps)
	return out
}
