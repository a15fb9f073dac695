package seeders

import "maintenance-system/internal/entities"

type equipmentSeed struct {
	Name     string
	Type     string
	Brand    string
	Model    string
	Serial   string
	Location string
	Status   string
	ClientID uint64
	SystemID uint64
}

// Демо-парк: две камеры одной модели, похожие камеры других моделей,
// контроль доступа, пожарная сигнализация и одно устройство на складе.
var equipmentsData = []equipmentSeed{
	{Name: "Domo entrada principal", Type: "Domo PTZ", Brand: "Hikvision", Model: "DS-2DE4425IW", Serial: "HK-0001", Location: "Acceso norte", Status: entities.EquipmentStatusActive, ClientID: 1, SystemID: 1},
	{Name: "Domo estacionamiento", Type: "Domo PTZ", Brand: "Hikvision", Model: "DS-2DE4425IW", Serial: "HK-0002", Location: "Estacionamiento", Status: entities.EquipmentStatusActive, ClientID: 1, SystemID: 1},
	{Name: "Bala perimetral este", Type: "Cámara Bala", Brand: "Hikvision", Model: "DS-2CD2043G2", Serial: "HK-0103", Location: "Perímetro este", Status: entities.EquipmentStatusActive, ClientID: 1, SystemID: 1},
	{Name: "Bala andén de carga", Type: "Cámara Bala", Brand: "Dahua", Model: "IPC-HFW2431S", Serial: "DH-0204", Location: "Andén 2", Status: entities.EquipmentStatusActive, ClientID: 2, SystemID: 2},
	{Name: "Lector puerta servidores", Type: "Control de Acceso", Brand: "ZKTeco", Model: "F18", Serial: "ZK-7781", Location: "Sala de servidores", Status: entities.EquipmentStatusActive, ClientID: 1, SystemID: 3},
	{Name: "Lector recepción", Type: "Control de Acceso", Brand: "ZKTeco", Model: "F18", Serial: "ZK-7782", Location: "Recepción", Status: entities.EquipmentStatusActive, ClientID: 2, SystemID: 4},
	{Name: "Panel de incendio", Type: "Panel de Incendio", Brand: "Bosch", Model: "FPA-1000", Serial: "BS-5501", Location: "Cuarto técnico", Status: entities.EquipmentStatusActive, ClientID: 2, SystemID: 5},
	{Name: "Detector de humo repuesto", Type: "Detector de Humo", Brand: "Bosch", Model: "FAP-425", Serial: "BS-9001", Location: "Bodega central", Status: entities.EquipmentStatusWarehouse},
}

var protocolsData = []entities.Protocol{
	{
		Type: "Control de Acceso", Brand: "ZKTeco", Model: "F18",
		Steps: []entities.ProtocolStep{
			{Step: "Limpiar sensor de huella y carcasa", Priority: entities.PriorityMedium, Percentage: 30},
			{Step: "Verificar registro de eventos y hora del equipo", Priority: entities.PriorityHigh, Percentage: 40},
			{Step: "Probar apertura con tarjeta y huella", Priority: entities.PriorityHigh, Percentage: 30},
		},
	},
	{
		Type: "Panel de Incendio", Brand: "Bosch", Model: "FPA-1000",
		Steps: []entities.ProtocolStep{
			{Step: "Revisar batería de respaldo", Priority: entities.PriorityHigh, Percentage: 50},
			{Step: "Probar lazo de detección", Priority: entities.PriorityHigh, Percentage: 50, Notes: "Coordinar con el cliente antes de la prueba"},
		},
	},
}
