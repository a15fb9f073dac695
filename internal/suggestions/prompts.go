package suggestions

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SimilarEquipmentPrompt - запрос к языковой модели на поиск похожего оборудования.
func SimilarEquipmentPrompt(reference EquipmentDescriptor, pool []EquipmentDescriptor) string {
	ref, _ := json.Marshal(reference)
	candidates, _ := json.Marshal(pool)

	var sb strings.Builder
	sb.WriteString("Eres un experto en mantenimiento de equipos de seguridad electrónica.\n")
	sb.WriteString("Equipo de referencia:\n")
	sb.Write(ref)
	sb.WriteString("\nLista de equipos candidatos:\n")
	sb.Write(candidates)
	sb.WriteString("\nDevuelve solo los equipos que podrían compartir el mismo protocolo de mantenimiento ")
	sb.WriteString("(mismo tipo de equipo, o misma marca y modelo). ")
	sb.WriteString(`Responde únicamente con JSON: {"similar_ids": [id, ...]}. Incluye el id de referencia.`)
	return sb.String()
}

// ProtocolStepsPrompt - запрос на генерацию шагов протокола обслуживания.
func ProtocolStepsPrompt(equipment EquipmentDescriptor) string {
	return fmt.Sprintf(`Genera un protocolo de mantenimiento preventivo para el equipo:
tipo: %s
marca: %s
modelo: %s
descripción: %s
Responde únicamente con JSON: {"steps": [{"step": "...", "priority": "baja|media|alta", "percentage": 0-100, "notes": "..."}]}.
La suma de "percentage" debe ser 100.`,
		equipment.Type, equipment.Brand, equipment.Model, equipment.Description)
}

// StepImagePrompt - запрос на иллюстрацию одного шага.
func StepImagePrompt(equipment EquipmentDescriptor, stepText string) string {
	return fmt.Sprintf("Ilustración técnica clara, fondo blanco, de un técnico realizando: %q en un equipo %s %s %s.",
		stepText, equipment.Type, equipment.Brand, equipment.Model)
}
