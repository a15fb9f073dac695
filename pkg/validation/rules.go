package validation

import (
	"maintenance-system/internal/entities"

	"github.com/go-playground/validator/v10"
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation("step_priority", isStepPriority); err != nil {
		return err
	}
	return nil
}

// isStepPriority - baja | media | alta
func isStepPriority(fl validator.FieldLevel) bool {
	return entities.IsValidPriority(fl.Field().String())
}
