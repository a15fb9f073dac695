package services

import (
	"strings"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/utils"
)

const protocolKeySeparator = "|"

// DeriveKey - ключ сопоставления оборудования и протокола. Регистр и пробелы значимы.
func DeriveKey(equipmentType, brand, model string) string {
	return equipmentType + protocolKeySeparator + brand + protocolKeySeparator + model
}

// ProtocolID - идентификатор протокола в хранилище для тройки (type, brand, model).
// ("Domo PTZ", "Hikvision", "DS-2") -> "domo-ptz-hikvision-ds-2"
func ProtocolID(equipmentType, brand, model string) string {
	return utils.Slugify(equipmentType + "-" + brand + "-" + model)
}

// ClassifiedEquipment - оборудование вместе с найденным для него протоколом.
type ClassifiedEquipment struct {
	Equipment entities.Equipment
	Protocol  entities.Protocol
}

// ClassificationResult - разбиение оборудования на две непересекающиеся части.
type ClassificationResult struct {
	WithProtocol    []ClassifiedEquipment
	WithoutProtocol []entities.Equipment
}

type protocolIndex struct {
	byKey map[string]entities.Protocol
	byID  map[string]entities.Protocol
}

func newProtocolIndex(protocols []entities.Protocol) protocolIndex {
	idx := protocolIndex{
		byKey: make(map[string]entities.Protocol, len(protocols)),
		byID:  make(map[string]entities.Protocol, len(protocols)),
	}
	for _, p := range protocols {
		key := DeriveKey(p.Type, p.Brand, p.Model)
		if _, exists := idx.byKey[key]; !exists {
			idx.byKey[key] = p
		}
		idx.byID[p.ID] = p
	}
	return idx
}

// match применяет ручную привязку, если она есть, иначе ищет протокол по тройке.
func (idx protocolIndex) match(e entities.Equipment) (entities.Protocol, bool) {
	if e.IsExplicitlyUnlinked() {
		return entities.Protocol{}, false
	}
	if pinned, ok := e.PinnedProtocolID(); ok {
		p, found := idx.byID[pinned]
		return p, found
	}
	if strings.HasPrefix(e.Type, entities.LegacyUnlinkedTypePrefix) {
		return entities.Protocol{}, false
	}
	p, found := idx.byKey[DeriveKey(e.Type, e.Brand, e.Model)]
	return p, found
}

// Classify делит оборудование на имеющее протокол и не имеющее его.
// Результат не кешируется: связь вычисляется заново на каждом чтении.
func Classify(equipment []entities.Equipment, protocols []entities.Protocol) ClassificationResult {
	idx := newProtocolIndex(protocols)
	result := ClassificationResult{
		WithProtocol:    make([]ClassifiedEquipment, 0),
		WithoutProtocol: make([]entities.Equipment, 0),
	}
	for _, e := range equipment {
		if p, ok := idx.match(e); ok {
			result.WithProtocol = append(result.WithProtocol, ClassifiedEquipment{Equipment: e, Protocol: p})
		} else {
			result.WithoutProtocol = append(result.WithoutProtocol, e)
		}
	}
	return result
}
