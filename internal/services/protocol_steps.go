package services

import (
	"errors"
	"math"
	"strings"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/suggestions"
	apperrors "maintenance-system/pkg/errors"
)

var errEmptySteps = errors.New("сервис подсказок вернул пустой список шагов")

// StepPatch - частичное изменение шага. nil-поля не меняются.
type StepPatch struct {
	Step       *string
	Priority   *string
	Percentage *float64
	Notes      *string
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// SanitizeStep приводит шаг к виду, в котором он хранится:
// неизвестный приоритет становится "baja", проценты зажимаются в [0, 100].
func SanitizeStep(step entities.ProtocolStep) entities.ProtocolStep {
	if !entities.IsValidPriority(step.Priority) {
		step.Priority = entities.PriorityLow
	}
	step.Percentage = clampPercent(step.Percentage)
	step.Completion = clampPercent(step.Completion)
	return step
}

func SanitizeSteps(steps []entities.ProtocolStep) []entities.ProtocolStep {
	out := make([]entities.ProtocolStep, len(steps))
	for i, s := range steps {
		out[i] = SanitizeStep(s)
	}
	return out
}

// stepsFromGenerated превращает черновики сервиса подсказок в шаги протокола.
// Шаги без текста отбрасываются.
func stepsFromGenerated(generated []suggestions.GeneratedStep) []entities.ProtocolStep {
	steps := make([]entities.ProtocolStep, 0, len(generated))
	for _, g := range generated {
		if strings.TrimSpace(g.Step) == "" {
			continue
		}
		steps = append(steps, SanitizeStep(entities.ProtocolStep{
			Step:       g.Step,
			Priority:   strings.ToLower(strings.TrimSpace(g.Priority)),
			Percentage: g.Percentage,
			Notes:      g.Notes,
		}))
	}
	return steps
}

func applyStepPatch(step entities.ProtocolStep, patch StepPatch) (entities.ProtocolStep, error) {
	if patch.Priority != nil && !entities.IsValidPriority(*patch.Priority) {
		return step, apperrors.NewValidationError("неизвестный приоритет %q", *patch.Priority)
	}
	if patch.Percentage != nil && (math.IsNaN(*patch.Percentage) || *patch.Percentage < 0 || *patch.Percentage > 100) {
		return step, apperrors.NewValidationError("процент должен быть от 0 до 100")
	}

	if patch.Step != nil {
		step.Step = *patch.Step
	}
	if patch.Priority != nil {
		step.Priority = *patch.Priority
	}
	if patch.Percentage != nil {
		step.Percentage = *patch.Percentage
	}
	if patch.Notes != nil {
		step.Notes = *patch.Notes
	}
	return step, nil
}
