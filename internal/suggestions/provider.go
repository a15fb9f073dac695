package suggestions

import (
	"context"

	"maintenance-system/internal/entities"
)

// Операции сервиса подсказок, используются в метриках и ошибках.
const (
	OperationFindSimilar   = "find_similar"
	OperationGenerateSteps = "generate_steps"
	OperationGenerateImage = "generate_image"
)

// EquipmentDescriptor - то, что сервис подсказок знает об оборудовании.
type EquipmentDescriptor struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Type        string `json:"type"`
}

func DescriptorFromEquipment(e entities.Equipment) EquipmentDescriptor {
	return EquipmentDescriptor{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Brand:       e.Brand,
		Model:       e.Model,
		Type:        e.Type,
	}
}

// GeneratedStep - черновик шага, как его вернул сервис. Поля могут быть пустыми или неверными,
// нормализация происходит на стороне сервиса протоколов.
type GeneratedStep struct {
	Step       string  `json:"step"`
	Priority   string  `json:"priority"`
	Percentage float64 `json:"percentage"`
	Notes      string  `json:"notes"`
}

// Provider - внешний сервис подсказок (ИИ или любая его замена).
type Provider interface {
	Name() string
	// FindSimilarEquipment возвращает id похожего оборудования из pool. Порядок и дубликаты не гарантируются.
	FindSimilarEquipment(ctx context.Context, reference EquipmentDescriptor, pool []EquipmentDescriptor) ([]uint64, error)
	GenerateProtocolSteps(ctx context.Context, equipment EquipmentDescriptor) ([]GeneratedStep, error)
	// GenerateStepImage возвращает URL картинки для шага.
	GenerateStepImage(ctx context.Context, equipment EquipmentDescriptor, stepText string) (string, error)
}
