package mock

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/suggestions"
)

// MockProvider - детерминированная замена ИИ для разработки и тестов.
// Похожим считается оборудование того же типа или той же марки и модели (без учёта регистра).
type MockProvider struct {
	// Err, если задан, возвращается из каждого вызова.
	Err error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (m *MockProvider) Name() string {
	return "mock"
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (m *MockProvider) FindSimilarEquipment(ctx context.Context, reference suggestions.EquipmentDescriptor, pool []suggestions.EquipmentDescriptor) ([]uint64, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := []uint64{reference.ID}
	for _, candidate := range pool {
		if candidate.ID == reference.ID {
			continue
		}
		sameType := norm(candidate.Type) != "" && norm(candidate.Type) == norm(reference.Type)
		sameModel := norm(candidate.Brand) == norm(reference.Brand) && norm(candidate.Model) == norm(reference.Model) && norm(candidate.Model) != ""
		if sameType || sameModel {
			ids = append(ids, candidate.ID)
		}
	}
	return ids, nil
}

func (m *MockProvider) GenerateProtocolSteps(ctx context.Context, equipment suggestions.EquipmentDescriptor) ([]suggestions.GeneratedStep, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(fmt.Sprintf("%s %s %s", equipment.Type, equipment.Brand, equipment.Model))
	return []suggestions.GeneratedStep{
		{Step: "Inspección visual de " + subject, Priority: entities.PriorityHigh, Percentage: 40},
		{Step: "Limpieza de carcasa y conectores", Priority: entities.PriorityMedium, Percentage: 30},
		{Step: "Verificación de funcionamiento", Priority: entities.PriorityLow, Percentage: 30, Notes: "Registrar anomalías"},
	}, nil
}

func (m *MockProvider) GenerateStepImage(ctx context.Context, equipment suggestions.EquipmentDescriptor, stepText string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "https://placehold.co/600x400?text=" + url.QueryEscape(stepText), nil
}
