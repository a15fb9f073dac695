package services

import (
	"context"
	"sync"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/internal/suggestions"
	apperrors "maintenance-system/pkg/errors"

	"go.uber.org/zap"
)

const saveModeEditor = "editor"

// EditorSnapshot - копия состояния редактора для отображения.
type EditorSnapshot struct {
	Open                bool
	Equipment           *entities.Equipment
	ProtocolID          string
	Steps               []entities.ProtocolStep
	GeneratingStepIndex *int
}

type editorState struct {
	open      bool
	epoch     uint64
	equipment entities.Equipment
	protocol  entities.Protocol
	steps     stepBuffer
}

func (s *editorState) reset() {
	epoch := s.epoch + 1
	*s = editorState{epoch: epoch}
}

// ProtocolEditor правит шаги протокола, найденного для выбранного оборудования.
// Сохранение полностью перезаписывает шаги: кто сохранил последним, тот и прав.
type ProtocolEditor struct {
	deps   WorkflowDeps
	logger *zap.Logger

	mu    sync.Mutex
	state editorState
}

func NewProtocolEditor(deps WorkflowDeps) *ProtocolEditor {
	return &ProtocolEditor{
		deps:   deps,
		logger: deps.Logger.Named("editor"),
	}
}

// Open загружает шаги протокола оборудования в рабочий буфер (глубокая копия).
func (e *ProtocolEditor) Open(ctx context.Context, equipmentID uint64) (EditorSnapshot, error) {
	snap, err := e.deps.loadCatalog(ctx, entities.EquipmentFilter{})
	if err != nil {
		return EditorSnapshot{}, err
	}
	if _, ok := findByID(snap.equipment, equipmentID); !ok {
		return EditorSnapshot{}, apperrors.ErrNotFound
	}

	var match *ClassifiedEquipment
	for _, item := range Classify(snap.equipment, snap.protocols).WithProtocol {
		if item.Equipment.ID == equipmentID {
			m := item
			match = &m
			break
		}
	}
	if match == nil {
		return EditorSnapshot{}, apperrors.NewValidationError("у оборудования %d нет протокола", equipmentID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state.reset()
	e.state.open = true
	e.state.equipment = match.Equipment
	e.state.protocol = match.Protocol
	e.state.steps.steps = entities.CloneSteps(match.Protocol.Steps)

	return e.snapshotLocked(), nil
}

func (e *ProtocolEditor) requireOpenLocked() error {
	if !e.state.open {
		return apperrors.NewValidationError("редактор протокола не открыт")
	}
	return nil
}

func (e *ProtocolEditor) UpdateStep(index int, patch StepPatch) (EditorSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOpenLocked(); err != nil {
		return EditorSnapshot{}, err
	}
	if err := e.state.steps.edit(index, patch); err != nil {
		return EditorSnapshot{}, err
	}
	return e.snapshotLocked(), nil
}

func (e *ProtocolEditor) AddStep(step entities.ProtocolStep) (EditorSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOpenLocked(); err != nil {
		return EditorSnapshot{}, err
	}
	e.state.steps.add(step)
	return e.snapshotLocked(), nil
}

func (e *ProtocolEditor) DeleteStep(index int) (EditorSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOpenLocked(); err != nil {
		return EditorSnapshot{}, err
	}
	if err := e.state.steps.remove(index); err != nil {
		return EditorSnapshot{}, err
	}
	return e.snapshotLocked(), nil
}

func (e *ProtocolEditor) SetStepImage(index int, url string) (EditorSnapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOpenLocked(); err != nil {
		return EditorSnapshot{}, err
	}
	if err := e.state.steps.setImage(index, url); err != nil {
		return EditorSnapshot{}, err
	}
	return e.snapshotLocked(), nil
}

func (e *ProtocolEditor) RemoveStepImage(index int) (EditorSnapshot, error) {
	return e.SetStepImage(index, "")
}

func (e *ProtocolEditor) GenerateStepImage(ctx context.Context, index int) (EditorSnapshot, error) {
	e.mu.Lock()
	if err := e.requireOpenLocked(); err != nil {
		e.mu.Unlock()
		return EditorSnapshot{}, err
	}
	stepText, err := e.state.steps.beginImage(index)
	if err != nil {
		e.mu.Unlock()
		return EditorSnapshot{}, err
	}
	subject := e.state.equipment
	epoch := e.state.epoch
	e.mu.Unlock()

	callCtx, cancel := e.deps.suggestionContext(ctx)
	url, callErr := e.deps.Provider.GenerateStepImage(callCtx, suggestions.DescriptorFromEquipment(subject), stepText)
	cancel()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.epoch != epoch {
		return EditorSnapshot{}, apperrors.ErrStaleResult
	}
	e.state.steps.endImage()

	if callErr != nil {
		e.logger.Warn("Не удалось сгенерировать изображение шага", zap.Int("index", index), zap.Error(callErr))
		return EditorSnapshot{}, apperrors.NewSuggestionError(suggestions.OperationGenerateImage, callErr)
	}
	if err := e.state.steps.setImage(index, url); err != nil {
		return EditorSnapshot{}, err
	}
	return e.snapshotLocked(), nil
}

// Save перезаписывает шаги протокола буфером. После успеха редактор закрывается,
// при ошибке буфер остаётся для повтора.
func (e *ProtocolEditor) Save(ctx context.Context) (*entities.Protocol, error) {
	e.mu.Lock()
	if err := e.requireOpenLocked(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	if len(e.state.steps.steps) == 0 {
		e.mu.Unlock()
		return nil, apperrors.NewValidationError("нет шагов для сохранения")
	}
	if e.state.steps.imageBusy() {
		e.mu.Unlock()
		return nil, apperrors.ErrImageGenerationInProgress
	}
	protocolID := e.state.protocol.ID
	equipmentID := e.state.equipment.ID
	steps := SanitizeSteps(e.state.steps.steps)
	epoch := e.state.epoch
	e.mu.Unlock()

	saved, err := e.deps.ProtocolRepo.ReplaceSteps(ctx, protocolID, steps)
	if err != nil {
		e.logger.Error("Не удалось сохранить шаги протокола", zap.String("protocol_id", protocolID), zap.Error(err))
		// Протокол могли удалить, пока редактор был открыт: это 404, а не повод повторять
		return nil, wrapRead("replace_steps", err)
	}

	e.deps.protocolSaved(saveModeEditor, false)
	e.deps.publish(ctx, events.ProtocolSavedEvent{
		ProtocolID:   saved.ID,
		Mode:         saveModeEditor,
		EquipmentIDs: []uint64{equipmentID},
		StepCount:    len(saved.Steps),
		ActorID:      actorID(ctx),
		At:           time.Now(),
	})

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state.epoch == epoch {
		e.state.reset()
	}
	return saved, nil
}

// Cancel закрывает редактор без сохранения.
func (e *ProtocolEditor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.reset()
}

func (e *ProtocolEditor) Snapshot() EditorSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *ProtocolEditor) snapshotLocked() EditorSnapshot {
	if !e.state.open {
		return EditorSnapshot{Steps: []entities.ProtocolStep{}}
	}
	eq := e.state.equipment
	return EditorSnapshot{
		Open:                true,
		Equipment:           &eq,
		ProtocolID:          e.state.protocol.ID,
		Steps:               e.state.steps.snapshot(),
		GeneratingStepIndex: e.state.steps.generatingIndex(),
	}
}
