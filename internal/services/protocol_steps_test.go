package services

import (
	"math"
	"testing"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/suggestions"
	apperrors "maintenance-system/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStep_Defaults(t *testing.T) {
	got := SanitizeStep(entities.ProtocolStep{Step: "Limpiar"})

	assert.Equal(t, entities.ProtocolStep{
		Step:       "Limpiar",
		Priority:   entities.PriorityLow,
		Percentage: 0,
		Completion: 0,
		Notes:      "",
		ImageURL:   "",
	}, got)
}

func TestSanitizeStep_Clamps(t *testing.T) {
	got := SanitizeStep(entities.ProtocolStep{Priority: "urgente", Percentage: 150, Completion: math.NaN()})
	assert.Equal(t, entities.PriorityLow, got.Priority)
	assert.Equal(t, 100.0, got.Percentage)
	assert.Equal(t, 0.0, got.Completion)

	got = SanitizeStep(entities.ProtocolStep{Priority: entities.PriorityHigh, Percentage: -3})
	assert.Equal(t, entities.PriorityHigh, got.Priority)
	assert.Equal(t, 0.0, got.Percentage)
}

func TestStepsFromGenerated(t *testing.T) {
	steps := stepsFromGenerated([]suggestions.GeneratedStep{
		{Step: "Limpiar", Priority: " ALTA ", Percentage: 70},
		{Step: "   "},
		{Step: "Probar"},
	})

	require.Len(t, steps, 2)
	assert.Equal(t, entities.PriorityHigh, steps[0].Priority)
	assert.Equal(t, entities.PriorityLow, steps[1].Priority)
}

func TestApplyStepPatch(t *testing.T) {
	base := entities.ProtocolStep{Step: "a", Priority: entities.PriorityLow, Percentage: 10, Notes: "n"}

	text := "b"
	got, err := applyStepPatch(base, StepPatch{Step: &text})
	require.NoError(t, err)
	assert.Equal(t, "b", got.Step)
	assert.Equal(t, base.Notes, got.Notes, "остальные поля не меняются")

	bad := "urgente"
	_, err = applyStepPatch(base, StepPatch{Priority: &bad})
	assert.True(t, apperrors.IsValidation(err))

	over := 101.0
	_, err = applyStepPatch(base, StepPatch{Percentage: &over})
	assert.True(t, apperrors.IsValidation(err))
}
