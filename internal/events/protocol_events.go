package events

import "time"

const (
	ProtocolSavedEventName     = "protocol.saved"
	EquipmentUnlinkedEventName = "equipment.unlinked"
	EquipmentRelinkedEventName = "equipment.relinked"
)

// ProtocolSavedEvent - базовый протокол создан или обновлён (через мастер группировки или редактор).
type ProtocolSavedEvent struct {
	ProtocolID   string
	Created      bool
	Mode         string // "grouping" | "editor"
	EquipmentIDs []uint64
	StepCount    int
	ActorID      uint64
	At           time.Time
}

// Name - реализуем интерфейс eventbus.Event
func (e ProtocolSavedEvent) Name() string {
	return ProtocolSavedEventName
}

// EquipmentUnlinkedEvent - оборудование вручную отвязано от протокола.
type EquipmentUnlinkedEvent struct {
	EquipmentID uint64
	ProtocolID  string
	ActorID     uint64
	At          time.Time
}

func (e EquipmentUnlinkedEvent) Name() string {
	return EquipmentUnlinkedEventName
}

// EquipmentRelinkedEvent - ручная отвязка снята.
type EquipmentRelinkedEvent struct {
	EquipmentID uint64
	ActorID     uint64
	At          time.Time
}

func (e EquipmentRelinkedEvent) Name() string {
	return EquipmentRelinkedEventName
}
