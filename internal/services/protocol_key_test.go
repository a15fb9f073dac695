package services

import (
	"fmt"
	"math/rand"
	"testing"

	"maintenance-system/internal/entities"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_CaseSensitive(t *testing.T) {
	assert.Equal(t, DeriveKey("Domo", "Hik", "X"), DeriveKey("Domo", "Hik", "X"))
	assert.NotEqual(t, DeriveKey("Domo", "Hik", "X"), DeriveKey("domo", "Hik", "X"))
	assert.NotEqual(t, DeriveKey("Domo", "", "X"), DeriveKey("Domo", "X", ""))
}

func TestProtocolID(t *testing.T) {
	testCases := []struct {
		equipmentType, brand, model string
		want                        string
	}{
		{"Domo PTZ", "Hikvision", "DS-2", "domo-ptz-hikvision-ds-2"},
		{"Cámara Bala", "Dahua", "Ñ1", "camara-bala-dahua-n1"},
		{"Detector  Humo", "Bosch", "FAP/425", "detector-humo-bosch-fap425"},
	}
	for _, tc := range testCases {
		t.Run(tc.want, func(t *testing.T) {
			got := ProtocolID(tc.equipmentType, tc.brand, tc.model)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, got, ProtocolID(tc.equipmentType, tc.brand, tc.model))
		})
	}
}

func TestClassify_PartitionIsExhaustiveAndDisjoint(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	types := []string{"Domo", "Bala", "Acceso"}
	brands := []string{"Hik", "Dahua"}

	for round := 0; round < 50; round++ {
		var protocols []entities.Protocol
		for _, ty := range types {
			if rng.Intn(2) == 0 {
				protocols = append(protocols, entities.Protocol{ID: ProtocolID(ty, "Hik", "M1"), Type: ty, Brand: "Hik", Model: "M1"})
			}
		}

		equipment := make([]entities.Equipment, rng.Intn(20))
		for i := range equipment {
			equipment[i] = entities.Equipment{
				ID:    uint64(i + 1),
				Type:  types[rng.Intn(len(types))],
				Brand: brands[rng.Intn(len(brands))],
				Model: fmt.Sprintf("M%d", rng.Intn(2)+1),
			}
			if rng.Intn(5) == 0 {
				equipment[i].LinkedProtocolID = null.StringFrom(entities.UnlinkedProtocolMarker)
			}
		}

		result := Classify(equipment, protocols)
		require.Equal(t, len(equipment), len(result.WithProtocol)+len(result.WithoutProtocol))

		seen := make(map[uint64]int)
		for _, item := range result.WithProtocol {
			seen[item.Equipment.ID]++
			assert.Equal(t, DeriveKey(item.Equipment.Type, item.Equipment.Brand, item.Equipment.Model),
				DeriveKey(item.Protocol.Type, item.Protocol.Brand, item.Protocol.Model))
		}
		for _, e := range result.WithoutProtocol {
			seen[e.ID]++
		}
		for _, e := range equipment {
			assert.Equal(t, 1, seen[e.ID], "оборудование %d должно попасть ровно в одну часть", e.ID)
		}
	}
}

func TestClassify_Overrides(t *testing.T) {
	protocols := []entities.Protocol{accessProtocol()}
	equipment := []entities.Equipment{
		{ID: 1, Type: "Acceso", Brand: "ZKTeco", Model: "F18"},
		{ID: 2, Type: "Acceso", Brand: "ZKTeco", Model: "F18", LinkedProtocolID: null.StringFrom(entities.UnlinkedProtocolMarker)},
		{ID: 3, Type: "Otro", Brand: "X", Model: "Y", LinkedProtocolID: null.StringFrom("acceso-zkteco-f18")},
		{ID: 4, Type: "Acceso", Brand: "ZKTeco", Model: "F18", LinkedProtocolID: null.StringFrom("no-existe")},
		{ID: 5, Type: "UNLINKED_Acceso", Brand: "ZKTeco", Model: "F18"},
		{ID: 6, Type: "acceso", Brand: "ZKTeco", Model: "F18"},
	}

	result := Classify(equipment, protocols)

	var linked []uint64
	for _, item := range result.WithProtocol {
		linked = append(linked, item.Equipment.ID)
		assert.Equal(t, "acceso-zkteco-f18", item.Protocol.ID)
	}
	assert.Equal(t, []uint64{1, 3}, linked)
	assert.Len(t, result.WithoutProtocol, 4)
}

func TestClassify_Empty(t *testing.T) {
	result := Classify(nil, nil)
	assert.Empty(t, result.WithProtocol)
	assert.Empty(t, result.WithoutProtocol)
	assert.NotNil(t, result.WithProtocol)
}
