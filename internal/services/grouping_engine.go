package services

import (
	"context"
	"sync"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/internal/suggestions"
	apperrors "maintenance-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"
)

// WorkflowState - шаг мастера создания базового протокола.
type WorkflowState string

const (
	StateIdle              WorkflowState = "idle"
	StateReferenceSelected WorkflowState = "reference_selected"
	StateSimilarFound      WorkflowState = "similar_found"
	StateStepsGenerated    WorkflowState = "steps_generated"
	StateSaved             WorkflowState = "saved"
)

const saveModeGrouping = "grouping"

// GroupingSnapshot - копия состояния мастера для отображения.
type GroupingSnapshot struct {
	State               WorkflowState
	Reference           *entities.Equipment
	Similar             []entities.Equipment
	Confirmed           []uint64
	ManualSelection     []uint64
	Steps               []entities.ProtocolStep
	ProtocolID          string
	SuggestionInFlight  bool
	GeneratingStepIndex *int
	LastSaved           *entities.Protocol
}

type groupingState struct {
	phase WorkflowState
	// epoch меняется при каждом сбросе. Ответ сервиса подсказок, вернувшийся
	// в другую эпоху, отбрасывается.
	epoch uint64

	catalog         []entities.Equipment
	reference       *entities.Equipment
	pool            []entities.Equipment
	similar         []uint64
	confirmed       []uint64
	manualSelection []uint64
	steps           stepBuffer

	suggestionBusy bool
	lastSaved      *entities.Protocol
}

func (s *groupingState) reset() {
	epoch := s.epoch + 1
	*s = groupingState{phase: StateIdle, epoch: epoch}
}

func (s *groupingState) equipment(id uint64) (entities.Equipment, bool) {
	return findByID(s.catalog, id)
}

func (s *groupingState) requirePhase(allowed ...WorkflowState) error {
	for _, p := range allowed {
		if s.phase == p {
			return nil
		}
	}
	switch s.phase {
	case StateIdle, StateSaved:
		return apperrors.NewValidationError("сначала выберите эталонное оборудование")
	case StateReferenceSelected:
		return apperrors.NewValidationError("сначала найдите похожее оборудование")
	default:
		return apperrors.NewValidationError("действие недоступно на шаге %q", s.phase)
	}
}

// GroupingEngine - мастер: эталон -> похожее оборудование -> шаги -> сохранение протокола.
// Все методы безопасны для конкурентного вызова. Вызовы сервиса подсказок идут без блокировки.
type GroupingEngine struct {
	deps   WorkflowDeps
	logger *zap.Logger

	mu    sync.Mutex
	state groupingState
}

func NewGroupingEngine(deps WorkflowDeps) *GroupingEngine {
	return &GroupingEngine{
		deps:   deps,
		logger: deps.Logger.Named("grouping"),
		state:  groupingState{phase: StateIdle},
	}
}

// SelectReference начинает новую группу. Эталон должен быть без протокола.
// Пул кандидатов - оборудование без протокола, прошедшее фильтр сессии.
func (g *GroupingEngine) SelectReference(ctx context.Context, equipmentID uint64, filter entities.EquipmentFilter) (GroupingSnapshot, error) {
	snap, err := g.deps.loadCatalog(ctx, entities.EquipmentFilter{})
	if err != nil {
		return GroupingSnapshot{}, err
	}

	reference, ok := findByID(snap.equipment, equipmentID)
	if !ok {
		return GroupingSnapshot{}, apperrors.ErrNotFound
	}
	if reference.HasLegacyUnlinkedType() {
		return GroupingSnapshot{}, legacyTypeError(reference)
	}

	classified := Classify(snap.equipment, snap.protocols)
	if _, unlinked := findByID(classified.WithoutProtocol, equipmentID); !unlinked {
		return GroupingSnapshot{}, apperrors.NewValidationError("у оборудования %d уже есть протокол", equipmentID)
	}

	pool := FilterEquipment(classified.WithoutProtocol, filter)
	if _, inPool := findByID(pool, equipmentID); !inPool {
		pool = append([]entities.Equipment{reference}, pool...)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.state.reset()
	g.state.phase = StateReferenceSelected
	g.state.catalog = snap.equipment
	g.state.reference = &reference
	g.state.pool = pool

	g.logger.Debug("Выбрано эталонное оборудование",
		zap.Uint64("equipment_id", equipmentID),
		zap.Int("pool", len(pool)),
	)
	return g.snapshotLocked(), nil
}

// legacyTypeError: протокол с типом "UNLINKED_..." не совпал бы ни с одним оборудованием.
func legacyTypeError(e entities.Equipment) error {
	return apperrors.NewValidationError(
		"у оборудования %d тип %q остался от старой отвязки, сначала восстановите привязку (relink)", e.ID, e.Type)
}

// FindSimilar спрашивает сервис подсказок о похожем оборудовании.
// Эталон всегда первый, все найденные сразу считаются подтверждёнными.
func (g *GroupingEngine) FindSimilar(ctx context.Context) (GroupingSnapshot, error) {
	g.mu.Lock()
	if err := g.state.requirePhase(StateReferenceSelected, StateSimilarFound, StateStepsGenerated); err != nil {
		g.mu.Unlock()
		return GroupingSnapshot{}, err
	}
	if g.state.suggestionBusy {
		g.mu.Unlock()
		return GroupingSnapshot{}, apperrors.ErrBusy
	}
	if g.state.steps.imageBusy() {
		g.mu.Unlock()
		return GroupingSnapshot{}, apperrors.ErrImageGenerationInProgress
	}
	g.state.suggestionBusy = true
	epoch := g.state.epoch
	reference := *g.state.reference
	pool := make([]suggestions.EquipmentDescriptor, len(g.state.pool))
	for i, e := range g.state.pool {
		pool[i] = suggestions.DescriptorFromEquipment(e)
	}
	g.mu.Unlock()

	callCtx, cancel := g.deps.suggestionContext(ctx)
	ids, callErr := g.deps.Provider.FindSimilarEquipment(callCtx, suggestions.DescriptorFromEquipment(reference), pool)
	cancel()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.epoch != epoch {
		g.logger.Info("Ответ о похожем оборудовании устарел и отброшен", zap.Uint64("reference_id", reference.ID))
		return GroupingSnapshot{}, apperrors.ErrStaleResult
	}
	g.state.suggestionBusy = false

	if callErr != nil {
		g.logger.Warn("Сервис подсказок не нашёл похожее оборудование", zap.Error(callErr))
		return GroupingSnapshot{}, apperrors.NewSuggestionError(suggestions.OperationFindSimilar, callErr)
	}

	similar := normalizeSimilar(ids, reference.ID, g.state.pool)
	g.state.similar = similar
	g.state.confirmed = append([]uint64(nil), similar...)
	g.state.manualSelection = nil
	g.state.steps.reset()
	g.state.phase = StateSimilarFound

	return g.snapshotLocked(), nil
}

// normalizeSimilar оставляет только id из пула без повторов и ставит эталон первым.
func normalizeSimilar(ids []uint64, referenceID uint64, pool []entities.Equipment) []uint64 {
	inPool := make(map[uint64]bool, len(pool))
	for _, e := range pool {
		inPool[e.ID] = true
	}

	out := []uint64{referenceID}
	seen := map[uint64]bool{referenceID: true}
	for _, id := range ids {
		if seen[id] || !inPool[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ToggleCandidate включает или исключает кандидата. Порядок подтверждённых
// всегда совпадает с порядком списка похожих.
func (g *GroupingEngine) ToggleCandidate(equipmentID uint64, confirmed bool) (GroupingSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.state.requirePhase(StateSimilarFound, StateStepsGenerated); err != nil {
		return GroupingSnapshot{}, err
	}
	if !containsID(g.state.similar, equipmentID) {
		return GroupingSnapshot{}, apperrors.NewValidationError("оборудование %d не входит в список похожих", equipmentID)
	}

	next := make([]uint64, 0, len(g.state.similar))
	for _, id := range g.state.similar {
		keep := containsID(g.state.confirmed, id)
		if id == equipmentID {
			keep = confirmed
		}
		if keep {
			next = append(next, id)
		}
	}
	g.state.confirmed = next
	return g.snapshotLocked(), nil
}

// ManualAddOptions - весь каталог, кроме уже предложенного, с необязательным поиском.
func (g *GroupingEngine) ManualAddOptions(search string) ([]entities.Equipment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.state.requirePhase(StateSimilarFound, StateStepsGenerated); err != nil {
		return nil, err
	}
	return g.manualOptionsLocked(search), nil
}

func (g *GroupingEngine) manualOptionsLocked(search string) []entities.Equipment {
	options := make([]entities.Equipment, 0)
	for _, e := range g.state.catalog {
		if containsID(g.state.similar, e.ID) || !matchesSearch(e, search) {
			continue
		}
		options = append(options, e)
	}
	return options
}

// SetManualSelection заменяет рабочий набор ручного добавления.
func (g *GroupingEngine) SetManualSelection(ids []uint64) (GroupingSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.state.requirePhase(StateSimilarFound, StateStepsGenerated); err != nil {
		return GroupingSnapshot{}, err
	}

	options := g.manualOptionsLocked("")
	selection := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if containsID(selection, id) {
			continue
		}
		if _, ok := findByID(options, id); !ok {
			return GroupingSnapshot{}, apperrors.NewValidationError("оборудование %d нельзя добавить вручную", id)
		}
		selection = append(selection, id)
	}
	g.state.manualSelection = selection
	return g.snapshotLocked(), nil
}

// ConfirmManualAdd добавляет выбранное в похожие и подтверждённые и очищает выбор.
func (g *GroupingEngine) ConfirmManualAdd() (GroupingSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.state.requirePhase(StateSimilarFound, StateStepsGenerated); err != nil {
		return GroupingSnapshot{}, err
	}
	if len(g.state.manualSelection) == 0 {
		return GroupingSnapshot{}, apperrors.NewValidationError("не выбрано оборудование для добавления")
	}

	g.state.similar = append(g.state.similar, g.state.manualSelection...)
	g.state.confirmed = append(g.state.confirmed, g.state.manualSelection...)
	g.state.manualSelection = nil
	return g.snapshotLocked(), nil
}

// GenerateSteps просит сервис подсказок составить шаги по первому подтверждённому оборудованию.
func (g *GroupingEngine) GenerateSteps(ctx context.Context) (GroupingSnapshot, error) {
	g.mu.Lock()
	if err := g.state.requirePhase(StateSimilarFound, StateStepsGenerated); err != nil {
		g.mu.Unlock()
		return GroupingSnapshot{}, err
	}
	if len(g.state.confirmed) == 0 {
		g.mu.Unlock()
		return GroupingSnapshot{}, apperrors.NewValidationError("нет подтверждённого оборудования")
	}
	if g.state.suggestionBusy {
		g.mu.Unlock()
		return GroupingSnapshot{}, apperrors.ErrBusy
	}
	if g.state.steps.imageBusy() {
		g.mu.Unlock()
		return GroupingSnapshot{}, apperrors.ErrImageGenerationInProgress
	}
	seed, ok := g.state.equipment(g.state.confirmed[0])
	if !ok {
		g.mu.Unlock()
		return GroupingSnapshot{}, apperrors.ErrNotFound
	}
	g.state.suggestionBusy = true
	epoch := g.state.epoch
	g.mu.Unlock()

	callCtx, cancel := g.deps.suggestionContext(ctx)
	generated, callErr := g.deps.Provider.GenerateProtocolSteps(callCtx, suggestions.DescriptorFromEquipment(seed))
	cancel()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.epoch != epoch {
		g.logger.Info("Сгенерированные шаги устарели и отброшены", zap.Uint64("equipment_id", seed.ID))
		return GroupingSnapshot{}, apperrors.ErrStaleResult
	}
	g.state.suggestionBusy = false

	if callErr != nil {
		g.logger.Warn("Сервис подсказок не сгенерировал шаги", zap.Error(callErr))
		return GroupingSnapshot{}, apperrors.NewSuggestionError(suggestions.OperationGenerateSteps, callErr)
	}

	steps := stepsFromGenerated(generated)
	if len(steps) == 0 {
		return GroupingSnapshot{}, apperrors.NewSuggestionError(suggestions.OperationGenerateSteps, errEmptySteps)
	}
	if err := g.state.steps.replace(steps); err != nil {
		return GroupingSnapshot{}, err
	}
	g.state.phase = StateStepsGenerated
	return g.snapshotLocked(), nil
}

func (g *GroupingEngine) requireStepsLocked() error {
	return g.state.requirePhase(StateStepsGenerated)
}

func (g *GroupingEngine) EditStep(index int, patch StepPatch) (GroupingSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireStepsLocked(); err != nil {
		return GroupingSnapshot{}, err
	}
	if err := g.state.steps.edit(index, patch); err != nil {
		return GroupingSnapshot{}, err
	}
	return g.snapshotLocked(), nil
}

// AddStep добавляет шаг вручную. Можно и без генерации: тогда мастер сразу переходит к шагам.
func (g *GroupingEngine) AddStep(step entities.ProtocolStep) (GroupingSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.state.requirePhase(StateSimilarFound, StateStepsGenerated); err != nil {
		return GroupingSnapshot{}, err
	}
	g.state.steps.add(step)
	g.state.phase = StateStepsGenerated
	return g.snapshotLocked(), nil
}

func (g *GroupingEngine) DeleteStep(index int) (GroupingSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireStepsLocked(); err != nil {
		return GroupingSnapshot{}, err
	}
	if err := g.state.steps.remove(index); err != nil {
		return GroupingSnapshot{}, err
	}
	return g.snapshotLocked(), nil
}

// SetStepImage ставит шагу загруженную картинку.
func (g *GroupingEngine) SetStepImage(index int, url string) (GroupingSnapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requireStepsLocked(); err != nil {
		return GroupingSnapshot{}, err
	}
	if err := g.state.steps.setImage(index, url); err != nil {
		return GroupingSnapshot{}, err
	}
	return g.snapshotLocked(), nil
}

func (g *GroupingEngine) RemoveStepImage(index int) (GroupingSnapshot, error) {
	return g.SetStepImage(index, "")
}

// GenerateStepImage заказывает картинку для шага. Одновременно генерируется только одна.
func (g *GroupingEngine) GenerateStepImage(ctx context.Context, index int) (GroupingSnapshot, error) {
	g.mu.Lock()
	if err := g.requireStepsLocked(); err != nil {
		g.mu.Unlock()
		return GroupingSnapshot{}, err
	}
	if g.state.suggestionBusy {
		g.mu.Unlock()
		return GroupingSnapshot{}, apperrors.ErrBusy
	}
	stepText, err := g.state.steps.beginImage(index)
	if err != nil {
		g.mu.Unlock()
		return GroupingSnapshot{}, err
	}
	subject := *g.state.reference
	if len(g.state.confirmed) > 0 {
		if e, ok := g.state.equipment(g.state.confirmed[0]); ok {
			subject = e
		}
	}
	epoch := g.state.epoch
	g.mu.Unlock()

	callCtx, cancel := g.deps.suggestionContext(ctx)
	url, callErr := g.deps.Provider.GenerateStepImage(callCtx, suggestions.DescriptorFromEquipment(subject), stepText)
	cancel()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.epoch != epoch {
		return GroupingSnapshot{}, apperrors.ErrStaleResult
	}
	g.state.steps.endImage()

	if callErr != nil {
		g.logger.Warn("Не удалось сгенерировать изображение шага", zap.Int("index", index), zap.Error(callErr))
		return GroupingSnapshot{}, apperrors.NewSuggestionError(suggestions.OperationGenerateImage, callErr)
	}
	if err := g.state.steps.setImage(index, url); err != nil {
		return GroupingSnapshot{}, err
	}
	return g.snapshotLocked(), nil
}

// Save создаёт или обновляет протокол по тройке первого подтверждённого оборудования.
// При ошибке хранилища состояние мастера не меняется, сохранение можно повторить.
func (g *GroupingEngine) Save(ctx context.Context) (*entities.Protocol, bool, error) {
	g.mu.Lock()
	if err := g.state.requirePhase(StateSimilarFound, StateStepsGenerated); err != nil {
		g.mu.Unlock()
		return nil, false, err
	}
	if len(g.state.confirmed) == 0 {
		g.mu.Unlock()
		return nil, false, apperrors.NewValidationError("нет подтверждённого оборудования")
	}
	if len(g.state.steps.steps) == 0 {
		g.mu.Unlock()
		return nil, false, apperrors.NewValidationError("нет шагов для сохранения")
	}
	if g.state.steps.imageBusy() {
		g.mu.Unlock()
		return nil, false, apperrors.ErrImageGenerationInProgress
	}
	first, ok := g.state.equipment(g.state.confirmed[0])
	if !ok {
		g.mu.Unlock()
		return nil, false, apperrors.ErrNotFound
	}
	if first.HasLegacyUnlinkedType() {
		g.mu.Unlock()
		return nil, false, legacyTypeError(first)
	}
	members := make([]entities.Equipment, 0, len(g.state.confirmed))
	for _, id := range g.state.confirmed {
		if e, ok := g.state.equipment(id); ok {
			members = append(members, e)
		}
	}
	protocol := entities.Protocol{
		ID:    ProtocolID(first.Type, first.Brand, first.Model),
		Type:  first.Type,
		Brand: first.Brand,
		Model: first.Model,
		Steps: SanitizeSteps(g.state.steps.steps),
	}
	epoch := g.state.epoch
	g.mu.Unlock()

	saved, created, err := g.deps.ProtocolRepo.UpsertProtocol(ctx, protocol)
	if err != nil {
		g.logger.Error("Не удалось сохранить базовый протокол", zap.String("protocol_id", protocol.ID), zap.Error(err))
		return nil, false, apperrors.NewPersistenceError("upsert_protocol", err)
	}
	if saved.Type != first.Type || saved.Brand != first.Brand || saved.Model != first.Model {
		// Другая тройка дала тот же id; запись перезаписана последней
		g.logger.Warn("Совпадение id протокола для разных троек", zap.String("protocol_id", saved.ID))
	}

	g.restoreLinks(ctx, *saved, members)

	g.deps.protocolSaved(saveModeGrouping, created)
	g.deps.publish(ctx, events.ProtocolSavedEvent{
		ProtocolID:   saved.ID,
		Created:      created,
		Mode:         saveModeGrouping,
		EquipmentIDs: equipmentIDs(members),
		StepCount:    len(saved.Steps),
		ActorID:      actorID(ctx),
		At:           time.Now(),
	})

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state.epoch == epoch {
		g.state.reset()
		g.state.phase = StateSaved
		g.state.lastSaved = saved
	}
	return saved, created, nil
}

// restoreLinks снимает ручную отвязку с подтверждённого оборудования той же тройки,
// иначе оно осталось бы без протокола сразу после сохранения. Ошибки только логируются.
func (g *GroupingEngine) restoreLinks(ctx context.Context, protocol entities.Protocol, members []entities.Equipment) {
	key := DeriveKey(protocol.Type, protocol.Brand, protocol.Model)
	for _, e := range members {
		if !e.IsExplicitlyUnlinked() || DeriveKey(e.Type, e.Brand, e.Model) != key {
			continue
		}
		cleared := null.String{}
		if _, err := g.deps.EquipmentRepo.UpdateEquipment(ctx, e.ID, entities.EquipmentPatch{LinkedProtocolID: &cleared}); err != nil {
			g.logger.Warn("Не удалось снять ручную отвязку после сохранения протокола",
				zap.Uint64("equipment_id", e.ID),
				zap.Error(err),
			)
		}
	}
}

// Reset бросает текущую группу. Ответы, которые ещё в пути, будут отброшены.
func (g *GroupingEngine) Reset() GroupingSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state.reset()
	return g.snapshotLocked()
}

func (g *GroupingEngine) Snapshot() GroupingSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snapshotLocked()
}

func (g *GroupingEngine) snapshotLocked() GroupingSnapshot {
	s := &g.state
	snap := GroupingSnapshot{
		State:               s.phase,
		Confirmed:           append([]uint64{}, s.confirmed...),
		ManualSelection:     append([]uint64{}, s.manualSelection...),
		Steps:               s.steps.snapshot(),
		SuggestionInFlight:  s.suggestionBusy,
		GeneratingStepIndex: s.steps.generatingIndex(),
		Similar:             make([]entities.Equipment, 0, len(s.similar)),
	}
	if s.reference != nil {
		ref := *s.reference
		snap.Reference = &ref
	}
	for _, id := range s.similar {
		if e, ok := s.equipment(id); ok {
			snap.Similar = append(snap.Similar, e)
		}
	}
	if len(s.confirmed) > 0 {
		if first, ok := s.equipment(s.confirmed[0]); ok {
			snap.ProtocolID = ProtocolID(first.Type, first.Brand, first.Model)
		}
	}
	if s.lastSaved != nil {
		saved := *s.lastSaved
		saved.Steps = entities.CloneSteps(saved.Steps)
		snap.LastSaved = &saved
	}
	return snap
}

func equipmentIDs(list []entities.Equipment) []uint64 {
	ids := make([]uint64, len(list))
	for i, e := range list {
		ids[i] = e.ID
	}
	return ids
}
