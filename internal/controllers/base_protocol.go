package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"
	"maintenance-system/pkg/validation"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const stepImageUploadContext = "step_image"

type BaseProtocolController struct {
	service services.BaseProtocolServiceInterface
	logger  *zap.Logger
}

func NewBaseProtocolController(service services.BaseProtocolServiceInterface, logger *zap.Logger) *BaseProtocolController {
	return &BaseProtocolController{service: service, logger: logger}
}

// stepSession - общий интерфейс шагов мастера и редактора, чтобы не дублировать обработчики.
type stepSession interface {
	addStep(step entities.ProtocolStep) (interface{}, error)
	editStep(index int, patch services.StepPatch) (interface{}, error)
	deleteStep(index int) (interface{}, error)
	setStepImage(index int, url string) (interface{}, error)
	removeStepImage(index int) (interface{}, error)
	generateStepImage(ctx context.Context, index int) (interface{}, error)
}

type workflowSession struct {
	id     string
	engine *services.GroupingEngine
}

func (s workflowSession) wrap(snap services.GroupingSnapshot, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return toWorkflowDTO(s.id, snap), nil
}

func (s workflowSession) addStep(step entities.ProtocolStep) (interface{}, error) {
	return s.wrap(s.engine.AddStep(step))
}

func (s workflowSession) editStep(index int, patch services.StepPatch) (interface{}, error) {
	return s.wrap(s.engine.EditStep(index, patch))
}

func (s workflowSession) deleteStep(index int) (interface{}, error) {
	return s.wrap(s.engine.DeleteStep(index))
}

func (s workflowSession) setStepImage(index int, url string) (interface{}, error) {
	return s.wrap(s.engine.SetStepImage(index, url))
}

func (s workflowSession) removeStepImage(index int) (interface{}, error) {
	return s.wrap(s.engine.RemoveStepImage(index))
}

func (s workflowSession) generateStepImage(ctx context.Context, index int) (interface{}, error) {
	return s.wrap(s.engine.GenerateStepImage(ctx, index))
}

type editorSession struct {
	id     string
	editor *services.ProtocolEditor
}

func (s editorSession) wrap(snap services.EditorSnapshot, err error) (interface{}, error) {
	if err != nil {
		return nil, err
	}
	return toEditorDTO(s.id, snap), nil
}

func (s editorSession) addStep(step entities.ProtocolStep) (interface{}, error) {
	return s.wrap(s.editor.AddStep(step))
}

func (s editorSession) editStep(index int, patch services.StepPatch) (interface{}, error) {
	return s.wrap(s.editor.UpdateStep(index, patch))
}

func (s editorSession) deleteStep(index int) (interface{}, error) {
	return s.wrap(s.editor.DeleteStep(index))
}

func (s editorSession) setStepImage(index int, url string) (interface{}, error) {
	return s.wrap(s.editor.SetStepImage(index, url))
}

func (s editorSession) removeStepImage(index int) (interface{}, error) {
	return s.wrap(s.editor.RemoveStepImage(index))
}

func (s editorSession) generateStepImage(ctx context.Context, index int) (interface{}, error) {
	return s.wrap(s.editor.GenerateStepImage(ctx, index))
}

type sessionResolver func(ctx echo.Context) (stepSession, error)

func (c *BaseProtocolController) resolveWorkflow(ctx echo.Context) (stepSession, error) {
	sid := ctx.Param("sid")
	engine, err := c.service.Workflow(ctx.Request().Context(), sid)
	if err != nil {
		return nil, err
	}
	return workflowSession{id: sid, engine: engine}, nil
}

func (c *BaseProtocolController) resolveEditor(ctx echo.Context) (stepSession, error) {
	sid := ctx.Param("sid")
	editor, err := c.service.Editor(ctx.Request().Context(), sid)
	if err != nil {
		return nil, err
	}
	return editorSession{id: sid, editor: editor}, nil
}

func parseUintParam(ctx echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неверный формат ID",
			err,
			map[string]interface{}{"param": ctx.Param(name)},
		)
	}
	return id, nil
}

func parseStepIndex(ctx echo.Context) (int, error) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil || index < 0 {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неверный номер шага",
			err,
			map[string]interface{}{"param": ctx.Param("index")},
		)
	}
	return index, nil
}

func (c *BaseProtocolController) bindAndValidate(ctx echo.Context, method string, payload interface{}) error {
	if err := ctx.Bind(payload); err != nil {
		c.logger.Error(method+": ошибка привязки данных", zap.Error(err))
		return apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil)
	}
	if err := ctx.Validate(payload); err != nil {
		c.logger.Error(method+": ошибка валидации данных", zap.Error(err))
		return err
	}
	return nil
}

// fail логирует и отвечает ошибкой. Доменные ошибки сами выбирают HTTP-код.
func (c *BaseProtocolController) fail(ctx echo.Context, method, message string, err error) error {
	c.logger.Error(method+": "+message, zap.Error(err))
	return utils.ErrorResponse(
		ctx,
		apperrors.NewHttpError(http.StatusInternalServerError, message, err, nil),
		c.logger,
	)
}

// ----- ПРОТОКОЛЫ И КЛАССИФИКАЦИЯ -----

func (c *BaseProtocolController) GetProtocols(ctx echo.Context) error {
	list, err := c.service.ListProtocols(ctx.Request().Context())
	if err != nil {
		return c.fail(ctx, "GetProtocols", "Не удалось получить список протоколов", err)
	}
	res := make([]dto.BaseProtocolDTO, len(list))
	for i, p := range list {
		res[i] = toProtocolDTO(p)
	}
	return utils.SuccessResponse(ctx, res, "Список протоколов успешно получен", http.StatusOK, uint64(len(res)))
}

func (c *BaseProtocolController) FindProtocol(ctx echo.Context) error {
	id := ctx.Param("id")
	p, err := c.service.FindProtocol(ctx.Request().Context(), id)
	if err != nil {
		return c.fail(ctx, "FindProtocol", "Не удалось найти протокол", err)
	}
	return utils.SuccessResponse(ctx, toProtocolDTO(*p), "Протокол успешно найден", http.StatusOK)
}

func (c *BaseProtocolController) GetClassification(ctx echo.Context) error {
	filter, err := utils.ParseEquipmentFilter(ctx.QueryParams())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	result, err := c.service.ClassifyEquipment(ctx.Request().Context(), filter)
	if err != nil {
		return c.fail(ctx, "GetClassification", "Не удалось получить оборудование", err)
	}
	return utils.SuccessResponse(ctx, toClassificationDTO(result), "Оборудование успешно получено", http.StatusOK)
}

func (c *BaseProtocolController) ExportClassification(ctx echo.Context) error {
	filter, err := utils.ParseEquipmentFilter(ctx.QueryParams())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	f, err := c.service.ExportClassification(ctx.Request().Context(), filter)
	if err != nil {
		return c.fail(ctx, "ExportClassification", "Не удалось сформировать файл", err)
	}
	defer f.Close()

	fileName := fmt.Sprintf("protocolos_base_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

func (c *BaseProtocolController) UnlinkEquipment(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var req dto.UnlinkEquipmentDTO
	if err := c.bindAndValidate(ctx, "UnlinkEquipment", &req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.service.Unlink(ctx.Request().Context(), id, req.Confirmed)
	if err != nil {
		return c.fail(ctx, "UnlinkEquipment", "Не удалось отвязать оборудование", err)
	}
	return utils.SuccessResponse(ctx, toEquipmentDTO(*updated), "Оборудование отвязано от протокола", http.StatusOK)
}

func (c *BaseProtocolController) RelinkEquipment(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	updated, err := c.service.Relink(ctx.Request().Context(), id)
	if err != nil {
		return c.fail(ctx, "RelinkEquipment", "Не удалось вернуть привязку оборудования", err)
	}
	return utils.SuccessResponse(ctx, toEquipmentDTO(*updated), "Привязка оборудования восстановлена", http.StatusOK)
}

// ----- МАСТЕР ГРУППИРОВКИ -----

func (c *BaseProtocolController) StartWorkflow(ctx echo.Context) error {
	sid, engine, err := c.service.StartWorkflow(ctx.Request().Context())
	if err != nil {
		return c.fail(ctx, "StartWorkflow", "Не удалось начать сессию", err)
	}
	return utils.SuccessResponse(ctx, toWorkflowDTO(sid, engine.Snapshot()), "Сессия мастера создана", http.StatusCreated)
}

// withWorkflow находит сессию мастера и отвечает её снимком после action.
func (c *BaseProtocolController) withWorkflow(ctx echo.Context, method, message string, action func(*services.GroupingEngine) (services.GroupingSnapshot, error)) error {
	sid := ctx.Param("sid")
	engine, err := c.service.Workflow(ctx.Request().Context(), sid)
	if err != nil {
		return c.fail(ctx, method, "Сессия мастера не найдена", err)
	}
	snap, err := action(engine)
	if err != nil {
		return c.fail(ctx, method, "Не удалось выполнить действие мастера", err)
	}
	return utils.SuccessResponse(ctx, toWorkflowDTO(sid, snap), message, http.StatusOK)
}

func (c *BaseProtocolController) GetWorkflow(ctx echo.Context) error {
	return c.withWorkflow(ctx, "GetWorkflow", "Состояние мастера получено", func(e *services.GroupingEngine) (services.GroupingSnapshot, error) {
		return e.Snapshot(), nil
	})
}

func (c *BaseProtocolController) CloseWorkflow(ctx echo.Context) error {
	if err := c.service.CloseWorkflow(ctx.Request().Context(), ctx.Param("sid")); err != nil {
		return c.fail(ctx, "CloseWorkflow", "Не удалось закрыть сессию", err)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Сессия мастера закрыта", http.StatusOK)
}

func (c *BaseProtocolController) SelectReference(ctx echo.Context) error {
	var req dto.SelectReferenceDTO
	if err := c.bindAndValidate(ctx, "SelectReference", &req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	filter := entities.EquipmentFilter{Search: req.Search}
	if req.ClientID.Valid {
		filter.ClientID = &req.ClientID.Uint64
	}
	if req.SystemID.Valid {
		filter.SystemID = &req.SystemID.Uint64
	}
	if req.Warehouse.Valid {
		filter.Warehouse = &req.Warehouse.Bool
	}

	return c.withWorkflow(ctx, "SelectReference", "Эталонное оборудование выбрано", func(e *services.GroupingEngine) (services.GroupingSnapshot, error) {
		return e.SelectReference(ctx.Request().Context(), req.EquipmentID, filter)
	})
}

func (c *BaseProtocolController) FindSimilar(ctx echo.Context) error {
	return c.withWorkflow(ctx, "FindSimilar", "Похожее оборудование найдено", func(e *services.GroupingEngine) (services.GroupingSnapshot, error) {
		return e.FindSimilar(ctx.Request().Context())
	})
}

func (c *BaseProtocolController) ResetWorkflow(ctx echo.Context) error {
	return c.withWorkflow(ctx, "ResetWorkflow", "Мастер сброшен", func(e *services.GroupingEngine) (services.GroupingSnapshot, error) {
		return e.Reset(), nil
	})
}

func (c *BaseProtocolController) ToggleCandidate(ctx echo.Context) error {
	id, err := parseUintParam(ctx, "equipmentId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var req dto.ToggleCandidateDTO
	if err := c.bindAndValidate(ctx, "ToggleCandidate", &req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.withWorkflow(ctx, "ToggleCandidate", "Выбор оборудования обновлён", func(e *services.GroupingEngine) (services.GroupingSnapshot, error) {
		return e.ToggleCandidate(id, req.Confirmed)
	})
}

func (c *BaseProtocolController) GetManualOptions(ctx echo.Context) error {
	engine, err := c.service.Workflow(ctx.Request().Context(), ctx.Param("sid"))
	if err != nil {
		return c.fail(ctx, "GetManualOptions", "Сессия мастера не найдена", err)
	}
	options, err := engine.ManualAddOptions(ctx.QueryParam("search"))
	if err != nil {
		return c.fail(ctx, "GetManualOptions", "Не удалось получить оборудование для добавления", err)
	}
	return utils.SuccessResponse(ctx, toEquipmentDTOs(options), "Оборудование для добавления получено", http.StatusOK, uint64(len(options)))
}

func (c *BaseProtocolController) SetManualSelection(ctx echo.Context) error {
	var req dto.ManualSelectionDTO
	if err := c.bindAndValidate(ctx, "SetManualSelection", &req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.withWorkflow(ctx, "SetManualSelection", "Выбор обновлён", func(e *services.GroupingEngine) (services.GroupingSnapshot, error) {
		return e.SetManualSelection(req.EquipmentIDs)
	})
}

func (c *BaseProtocolController) ConfirmManualAdd(ctx echo.Context) error {
	return c.withWorkflow(ctx, "ConfirmManualAdd", "Оборудование добавлено в группу", func(e *services.GroupingEngine) (services.GroupingSnapshot, error) {
		return e.ConfirmManualAdd()
	})
}

func (c *BaseProtocolController) GenerateSteps(ctx echo.Context) error {
	return c.withWorkflow(ctx, "GenerateSteps", "Шаги протокола сгенерированы", func(e *services.GroupingEngine) (services.GroupingSnapshot, error) {
		return e.GenerateSteps(ctx.Request().Context())
	})
}

func (c *BaseProtocolController) SaveWorkflow(ctx echo.Context) error {
	engine, err := c.service.Workflow(ctx.Request().Context(), ctx.Param("sid"))
	if err != nil {
		return c.fail(ctx, "SaveWorkflow", "Сессия мастера не найдена", err)
	}
	saved, created, err := engine.Save(ctx.Request().Context())
	if err != nil {
		return c.fail(ctx, "SaveWorkflow", "Не удалось сохранить протокол", err)
	}

	code, message := http.StatusOK, "Протокол обновлён"
	if created {
		code, message = http.StatusCreated, "Протокол создан"
	}
	return utils.SuccessResponse(ctx, dto.SaveProtocolResultDTO{Protocol: toProtocolDTO(*saved), Created: created}, message, code)
}

// ----- РЕДАКТОР ПРОТОКОЛА -----

func (c *BaseProtocolController) OpenEditor(ctx echo.Context) error {
	var req dto.OpenEditorDTO
	if err := c.bindAndValidate(ctx, "OpenEditor", &req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	sid, editor, err := c.service.OpenEditor(ctx.Request().Context(), req.EquipmentID)
	if err != nil {
		return c.fail(ctx, "OpenEditor", "Не удалось открыть редактор", err)
	}
	return utils.SuccessResponse(ctx, toEditorDTO(sid, editor.Snapshot()), "Редактор открыт", http.StatusCreated)
}

func (c *BaseProtocolController) GetEditor(ctx echo.Context) error {
	sid := ctx.Param("sid")
	editor, err := c.service.Editor(ctx.Request().Context(), sid)
	if err != nil {
		return c.fail(ctx, "GetEditor", "Сессия редактора не найдена", err)
	}
	return utils.SuccessResponse(ctx, toEditorDTO(sid, editor.Snapshot()), "Состояние редактора получено", http.StatusOK)
}

func (c *BaseProtocolController) CloseEditor(ctx echo.Context) error {
	if err := c.service.CloseEditor(ctx.Request().Context(), ctx.Param("sid")); err != nil {
		return c.fail(ctx, "CloseEditor", "Не удалось закрыть редактор", err)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Редактор закрыт без сохранения", http.StatusOK)
}

func (c *BaseProtocolController) SaveEditor(ctx echo.Context) error {
	editor, err := c.service.Editor(ctx.Request().Context(), ctx.Param("sid"))
	if err != nil {
		return c.fail(ctx, "SaveEditor", "Сессия редактора не найдена", err)
	}
	saved, err := editor.Save(ctx.Request().Context())
	if err != nil {
		return c.fail(ctx, "SaveEditor", "Не удалось сохранить протокол", err)
	}
	if err := c.service.CloseEditor(ctx.Request().Context(), ctx.Param("sid")); err != nil {
		c.logger.Warn("SaveEditor: сессия редактора не закрыта", zap.Error(err))
	}
	return utils.SuccessResponse(ctx, dto.SaveProtocolResultDTO{Protocol: toProtocolDTO(*saved)}, "Протокол обновлён", http.StatusOK)
}

// ----- ШАГИ (общие для мастера и редактора) -----

func (c *BaseProtocolController) respondStep(ctx echo.Context, method, message string, resolve sessionResolver, action func(stepSession) (interface{}, error)) error {
	session, err := resolve(ctx)
	if err != nil {
		return c.fail(ctx, method, "Сессия не найдена", err)
	}
	res, err := action(session)
	if err != nil {
		return c.fail(ctx, method, "Не удалось изменить шаги", err)
	}
	return utils.SuccessResponse(ctx, res, message, http.StatusOK)
}

func (c *BaseProtocolController) addStep(ctx echo.Context, method string, resolve sessionResolver) error {
	var req dto.CreateStepDTO
	if err := c.bindAndValidate(ctx, method, &req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondStep(ctx, method, "Шаг добавлен", resolve, func(s stepSession) (interface{}, error) {
		return s.addStep(createStepFromDTO(req))
	})
}

func (c *BaseProtocolController) updateStep(ctx echo.Context, method string, resolve sessionResolver) error {
	index, err := parseStepIndex(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	var req dto.UpdateStepDTO
	if err := c.bindAndValidate(ctx, method, &req); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondStep(ctx, method, "Шаг обновлён", resolve, func(s stepSession) (interface{}, error) {
		return s.editStep(index, stepPatchFromDTO(req))
	})
}

func (c *BaseProtocolController) deleteStep(ctx echo.Context, method string, resolve sessionResolver) error {
	index, err := parseStepIndex(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondStep(ctx, method, "Шаг удалён", resolve, func(s stepSession) (interface{}, error) {
		return s.deleteStep(index)
	})
}

// uploadStepImage сохраняет файл и ставит его шагу. Если шаг отклонил картинку, файл удаляется.
func (c *BaseProtocolController) uploadStepImage(ctx echo.Context, method string, resolve sessionResolver) error {
	index, err := parseStepIndex(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	session, err := resolve(ctx)
	if err != nil {
		return c.fail(ctx, method, "Сессия не найдена", err)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Файл не передан", err, nil), c.logger)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.fail(ctx, method, "Не удалось прочитать файл", err)
	}
	defer file.Close()

	if err := validation.ValidateFile(fileHeader, file, stepImageUploadContext); err != nil {
		c.logger.Error(method+": файл не прошёл проверку", zap.String("file", fileHeader.Filename), zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, err.Error(), err, nil), c.logger)
	}

	reqCtx := ctx.Request().Context()
	url, err := c.service.SaveStepImage(reqCtx, file, fileHeader.Filename)
	if err != nil {
		return c.fail(ctx, method, "Не удалось сохранить файл", err)
	}

	res, err := session.setStepImage(index, url)
	if err != nil {
		c.service.DiscardStepImage(reqCtx, url)
		return c.fail(ctx, method, "Не удалось прикрепить изображение", err)
	}
	return utils.SuccessResponse(ctx, res, "Изображение загружено", http.StatusOK)
}

func (c *BaseProtocolController) removeStepImage(ctx echo.Context, method string, resolve sessionResolver) error {
	index, err := parseStepIndex(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondStep(ctx, method, "Изображение убрано", resolve, func(s stepSession) (interface{}, error) {
		return s.removeStepImage(index)
	})
}

func (c *BaseProtocolController) generateStepImage(ctx echo.Context, method string, resolve sessionResolver) error {
	index, err := parseStepIndex(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return c.respondStep(ctx, method, "Изображение сгенерировано", resolve, func(s stepSession) (interface{}, error) {
		return s.generateStepImage(ctx.Request().Context(), index)
	})
}

func (c *BaseProtocolController) AddWorkflowStep(ctx echo.Context) error {
	return c.addStep(ctx, "AddWorkflowStep", c.resolveWorkflow)
}

func (c *BaseProtocolController) UpdateWorkflowStep(ctx echo.Context) error {
	return c.updateStep(ctx, "UpdateWorkflowStep", c.resolveWorkflow)
}

func (c *BaseProtocolController) DeleteWorkflowStep(ctx echo.Context) error {
	return c.deleteStep(ctx, "DeleteWorkflowStep", c.resolveWorkflow)
}

func (c *BaseProtocolController) UploadWorkflowStepImage(ctx echo.Context) error {
	return c.uploadStepImage(ctx, "UploadWorkflowStepImage", c.resolveWorkflow)
}

func (c *BaseProtocolController) RemoveWorkflowStepImage(ctx echo.Context) error {
	return c.removeStepImage(ctx, "RemoveWorkflowStepImage", c.resolveWorkflow)
}

func (c *BaseProtocolController) GenerateWorkflowStepImage(ctx echo.Context) error {
	return c.generateStepImage(ctx, "GenerateWorkflowStepImage", c.resolveWorkflow)
}

func (c *BaseProtocolController) AddEditorStep(ctx echo.Context) error {
	return c.addStep(ctx, "AddEditorStep", c.resolveEditor)
}

func (c *BaseProtocolController) UpdateEditorStep(ctx echo.Context) error {
	return c.updateStep(ctx, "UpdateEditorStep", c.resolveEditor)
}

func (c *BaseProtocolController) DeleteEditorStep(ctx echo.Context) error {
	return c.deleteStep(ctx, "DeleteEditorStep", c.resolveEditor)
}

func (c *BaseProtocolController) UploadEditorStepImage(ctx echo.Context) error {
	return c.uploadStepImage(ctx, "UploadEditorStepImage", c.resolveEditor)
}

func (c *BaseProtocolController) RemoveEditorStepImage(ctx echo.Context) error {
	return c.removeStepImage(ctx, "RemoveEditorStepImage", c.resolveEditor)
}

func (c *BaseProtocolController) GenerateEditorStepImage(ctx echo.Context) error {
	return c.generateStepImage(ctx, "GenerateEditorStepImage", c.resolveEditor)
}
