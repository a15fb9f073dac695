package services

import (
	"strings"

	"maintenance-system/internal/entities"
)

// matchesFilter - та же логика, что и в SQL репозитория, но для списков в памяти.
func matchesFilter(e entities.Equipment, filter entities.EquipmentFilter) bool {
	if filter.ClientID != nil && (!e.ClientID.Valid || e.ClientID.Uint64 != *filter.ClientID) {
		return false
	}
	if filter.SystemID != nil && (!e.SystemID.Valid || e.SystemID.Uint64 != *filter.SystemID) {
		return false
	}
	if filter.Warehouse != nil && (e.Status == entities.EquipmentStatusWarehouse) != *filter.Warehouse {
		return false
	}
	return matchesSearch(e, filter.Search)
}

func matchesSearch(e entities.Equipment, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	for _, field := range []string{e.Name, e.Brand, e.Model, e.Type, e.Serial, e.Location} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// FilterEquipment возвращает оборудование, прошедшее все заданные фильтры. Порядок сохраняется.
func FilterEquipment(list []entities.Equipment, filter entities.EquipmentFilter) []entities.Equipment {
	out := make([]entities.Equipment, 0, len(list))
	for _, e := range list {
		if matchesFilter(e, filter) {
			out = append(out, e)
		}
	}
	return out
}

// FilterClassification применяет фильтры к обеим частям классификации.
func FilterClassification(result ClassificationResult, filter entities.EquipmentFilter) ClassificationResult {
	filtered := ClassificationResult{
		WithProtocol:    make([]ClassifiedEquipment, 0, len(result.WithProtocol)),
		WithoutProtocol: FilterEquipment(result.WithoutProtocol, filter),
	}
	for _, item := range result.WithProtocol {
		if matchesFilter(item.Equipment, filter) {
			filtered.WithProtocol = append(filtered.WithProtocol, item)
		}
	}
	return filtered
}
