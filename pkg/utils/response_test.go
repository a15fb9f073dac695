package utils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "maintenance-system/pkg/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func respond(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodPost, "/api/base-protocols/editors/x/save", nil), rec)
	require.NoError(t, ErrorResponse(ctx, err, zap.NewNop()))
	return rec
}

func TestErrorResponse_StatusCodes(t *testing.T) {
	deleted := apperrors.NewPersistenceError("replace_steps", apperrors.ErrNotFound)

	cases := []struct {
		name string
		err  error
		code int
	}{
		{"валидация", apperrors.NewValidationError("нет шагов"), http.StatusBadRequest},
		{"сбой подсказок", apperrors.NewSuggestionError("generate_steps", errors.New("timeout")), http.StatusBadGateway},
		{"сбой базы", apperrors.NewPersistenceError("replace_steps", errors.New("deadlock")), http.StatusInternalServerError},
		{"удалённая запись внутри ошибки хранилища", deleted, http.StatusNotFound},
		{"удалённая запись внутри HttpError", apperrors.NewHttpError(http.StatusInternalServerError, "Не удалось сохранить", deleted, nil), http.StatusNotFound},
		{"занято", apperrors.ErrBusy, http.StatusConflict},
		{"неизвестная ошибка", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, respond(t, tc.err).Code)
		})
	}
}
