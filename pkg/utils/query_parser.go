package utils

import (
	"net/url"
	"strconv"
	"strings"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
)

// ParseFilters собирает параметры вида filter[client_id]=1 в map.
func ParseFilters(query url.Values) map[string]string {
	filters := make(map[string]string)
	for key, values := range query {
		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") && len(values) > 0 && values[0] != "" {
			filters[key[7:len(key)-1]] = values[0]
		}
	}
	return filters
}

// ParseEquipmentFilter разбирает фильтры экрана протоколов:
// ?filter[client_id]=3&filter[system_id]=7&filter[warehouse]=true&search=hikvision
func ParseEquipmentFilter(query url.Values) (entities.EquipmentFilter, error) {
	var filter entities.EquipmentFilter
	filters := ParseFilters(query)

	if raw, ok := filters["client_id"]; ok {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, apperrors.NewValidationError("некорректный filter[client_id]: %s", raw)
		}
		filter.ClientID = &id
	}
	if raw, ok := filters["system_id"]; ok {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return filter, apperrors.NewValidationError("некорректный filter[system_id]: %s", raw)
		}
		filter.SystemID = &id
	}
	if raw, ok := filters["warehouse"]; ok {
		warehouse, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, apperrors.NewValidationError("некорректный filter[warehouse]: %s", raw)
		}
		filter.Warehouse = &warehouse
	}
	filter.Search = strings.TrimSpace(query.Get("search"))
	return filter, nil
}
