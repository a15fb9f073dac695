package services

import (
	"testing"

	"maintenance-system/internal/entities"

	"github.com/stretchr/testify/assert"
)

func ids(list []entities.Equipment) []uint64 {
	out := make([]uint64, 0, len(list))
	for _, e := range list {
		out = append(out, e.ID)
	}
	return out
}

func TestFilterEquipment(t *testing.T) {
	catalog := testCatalog()
	client := uint64(2)
	warehouse := true
	notWarehouse := false

	testCases := []struct {
		name   string
		filter entities.EquipmentFilter
		want   []uint64
	}{
		{name: "без фильтров", filter: entities.EquipmentFilter{}, want: []uint64{refID, eqBID, eqCID, twinID, accessID, detectorID}},
		{name: "клиент", filter: entities.EquipmentFilter{ClientID: &client}, want: []uint64{eqCID, twinID}},
		{name: "склад", filter: entities.EquipmentFilter{Warehouse: &warehouse}, want: []uint64{detectorID}},
		{name: "не склад + поиск", filter: entities.EquipmentFilter{Warehouse: &notWarehouse, Search: "  BALA "}, want: []uint64{eqBID, eqCID}},
		{name: "поиск по модели", filter: entities.EquipmentFilter{Search: "f18"}, want: []uint64{accessID}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(FilterEquipment(catalog, tc.filter)))
		})
	}
}

func TestFilterClassification(t *testing.T) {
	result := Classify(testCatalog(), []entities.Protocol{accessProtocol()})
	warehouse := true

	filtered := FilterClassification(result, entities.EquipmentFilter{Warehouse: &warehouse})
	assert.Empty(t, filtered.WithProtocol)
	assert.Equal(t, []uint64{detectorID}, ids(filtered.WithoutProtocol))
}
