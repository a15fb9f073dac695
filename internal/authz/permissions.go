// internal/authz/permissions.go
package authz

// --- СПИСОК ВСЕХ ПЕРМИШЕНОВ В СИСТЕМЕ ---

const (
	// Базовые протоколы и привязка оборудования
	ProtocolsView   = "protocols:view"
	ProtocolsManage = "protocols:manage"

	// Оборудование
	EquipmentView   = "equipment:view"
	EquipmentUnlink = "equipment:unlink"
)

// Роли пользователей панели
const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
	RoleTechnician = "tecnico"
	RoleClient     = "cliente"
)

var rolePermissions = map[string][]string{
	RoleAdmin:      {ProtocolsView, ProtocolsManage, EquipmentView, EquipmentUnlink},
	RoleSupervisor: {ProtocolsView, ProtocolsManage, EquipmentView, EquipmentUnlink},
	RoleTechnician: {ProtocolsView, EquipmentView},
	RoleClient:     {},
}

// IsKnownRole проверяет, что роль из токена нам известна.
func IsKnownRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}

// CanDo - простая проверка роли. Никаких областей видимости: панель однопользовательская.
func CanDo(role string, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
