package errors

import (
	"errors"
	"fmt"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader   = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader = fmt.Errorf("неверный формат заголовка авторизации")
	ErrUnauthorized      = fmt.Errorf("неавторизован")
	ErrForbidden         = fmt.Errorf("доступ запрещён")

	// Контекст
	ErrUserIDNotFoundInContext = fmt.Errorf("UserID не найден в контексте запроса")

	// Общие
	ErrNotFound   = fmt.Errorf("запись не найдена")
	ErrBadRequest = fmt.Errorf("неверный запрос")

	// Рабочие сессии протоколов
	ErrSessionNotFound           = fmt.Errorf("рабочая сессия не найдена или истекла")
	ErrBusy                      = fmt.Errorf("предыдущий запрос к сервису подсказок ещё выполняется")
	ErrImageGenerationInProgress = fmt.Errorf("генерация изображения для другого шага ещё выполняется")
	ErrStaleResult               = fmt.Errorf("ответ устарел: сессия была сброшена во время запроса")
)

// ValidationError - ошибка входных данных, обнаруженная до любого изменения хранилища.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// SuggestionError - сбой внешнего сервиса подсказок (ИИ, сеть).
type SuggestionError struct {
	Operation string
	Err       error
}

func (e *SuggestionError) Error() string {
	return fmt.Sprintf("сервис подсказок (%s): %v", e.Operation, e.Err)
}

func (e *SuggestionError) Unwrap() error { return e.Err }

func NewSuggestionError(operation string, err error) error {
	return &SuggestionError{Operation: operation, Err: err}
}

// PersistenceError - сбой записи в хранилище. Рабочее состояние сессии при этом сохраняется.
type PersistenceError struct {
	Operation string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("ошибка сохранения (%s): %v", e.Operation, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func NewPersistenceError(operation string, err error) error {
	return &PersistenceError{Operation: operation, Err: err}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsSuggestion(err error) bool {
	var target *SuggestionError
	return errors.As(err, &target)
}

func IsPersistence(err error) bool {
	var target *PersistenceError
	return errors.As(err, &target)
}
