package utils

import (
	"errors"
	"net/http"

	apperrors "maintenance-system/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HttpResponse struct {
	Status     bool        `json:"status"`
	Body       interface{} `json:"body,omitempty"`
	Message    string      `json:"message"`
	TotalCount *uint64     `json:"total_count,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.TotalCount = &total[0]
	}
	return ctx.JSON(code, response)
}

// ErrorResponse переводит ошибку приложения в HTTP-ответ.
// Для HttpError клиент видит только пользовательское сообщение, причина уходит в лог.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code, message, details := resolveError(err)

	if code >= http.StatusInternalServerError && logger != nil {
		logger.Error("Ошибка обработки запроса",
			zap.String("method", ctx.Request().Method),
			zap.String("uri", ctx.Request().RequestURI),
			zap.Int("code", code),
			zap.Error(err),
		)
	}

	response := &HttpResponse{
		Status:  false,
		Message: message,
	}
	if len(details) > 0 {
		response.Body = details
	}
	return ctx.JSON(code, response)
}

func resolveError(err error) (int, string, map[string]interface{}) {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		// Доменная ошибка внутри HttpError важнее кода, выбранного контроллером по умолчанию
		if httpErr.Err != nil {
			if code, message, ok := classifyDomainError(httpErr.Err); ok {
				return code, message, httpErr.Details
			}
		}
		return httpErr.Code, httpErr.Message, httpErr.Details
	}

	if code, message, ok := classifyDomainError(err); ok {
		return code, message, nil
	}
	return http.StatusInternalServerError, "Внутренняя ошибка сервера", nil
}

func classifyDomainError(err error) (int, string, bool) {
	var validationErr *apperrors.ValidationError
	var fieldErrs validator.ValidationErrors
	var suggestionErr *apperrors.SuggestionError
	var persistenceErr *apperrors.PersistenceError

	switch {
	// Отсутствие записи важнее обёртки, в которую её завернул сервис
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrSessionNotFound):
		return http.StatusNotFound, err.Error(), true
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message, true
	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest, "Ошибка валидации: " + fieldErrs.Error(), true
	case errors.As(err, &suggestionErr):
		return http.StatusBadGateway, "Сервис подсказок недоступен, попробуйте ещё раз", true
	case errors.As(err, &persistenceErr):
		return http.StatusInternalServerError, "Не удалось сохранить изменения, данные сессии сохранены для повтора", true
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenIsNotAccess):
		return http.StatusUnauthorized, err.Error(), true
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, err.Error(), true
	case errors.Is(err, apperrors.ErrBusy),
		errors.Is(err, apperrors.ErrImageGenerationInProgress),
		errors.Is(err, apperrors.ErrStaleResult):
		return http.StatusConflict, err.Error(), true
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, err.Error(), true
	}
	return 0, "", false
}
