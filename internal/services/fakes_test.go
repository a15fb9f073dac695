package services

import (
	"context"
	"sync"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/suggestions"
	apperrors "maintenance-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type fakeEquipmentRepo struct {
	mu        sync.Mutex
	items     []entities.Equipment
	listErr   error
	updateErr error
	updates   []uint64
}

func (r *fakeEquipmentRepo) ListEquipment(_ context.Context, filter entities.EquipmentFilter) ([]entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	return FilterEquipment(r.items, filter), nil
}

func (r *fakeEquipmentRepo) FindEquipment(_ context.Context, id uint64) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.ID == id {
			found := e
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEquipmentRepo) UpdateEquipment(_ context.Context, id uint64, patch entities.EquipmentPatch) (*entities.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	for i := range r.items {
		if r.items[i].ID != id {
			continue
		}
		if patch.Type != nil {
			r.items[i].Type = *patch.Type
		}
		if patch.LinkedProtocolID != nil {
			r.items[i].LinkedProtocolID = *patch.LinkedProtocolID
		}
		r.updates = append(r.updates, id)
		updated := r.items[i]
		return &updated, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEquipmentRepo) CreateEquipment(_ context.Context, _ pgx.Tx, e *entities.Equipment) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = uint64(len(r.items) + 1)
	r.items = append(r.items, *e)
	return e.ID, nil
}

func (r *fakeEquipmentRepo) get(id uint64) entities.Equipment {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.items {
		if e.ID == id {
			return e
		}
	}
	return entities.Equipment{}
}

type fakeProtocolRepo struct {
	mu         sync.Mutex
	items      map[string]entities.Protocol
	order      []string
	upsertErr  error
	replaceErr error
	upserts    int
}

func newFakeProtocolRepo(protocols ...entities.Protocol) *fakeProtocolRepo {
	r := &fakeProtocolRepo{items: make(map[string]entities.Protocol)}
	for _, p := range protocols {
		r.items[p.ID] = p
		r.order = append(r.order, p.ID)
	}
	return r
}

func (r *fakeProtocolRepo) ListProtocols(context.Context) ([]entities.Protocol, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]entities.Protocol, 0, len(r.order))
	for _, id := range r.order {
		p := r.items[id]
		p.Steps = entities.CloneSteps(p.Steps)
		list = append(list, p)
	}
	return list, nil
}

func (r *fakeProtocolRepo) FindProtocol(_ context.Context, id string) (*entities.Protocol, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	p.Steps = entities.CloneSteps(p.Steps)
	return &p, nil
}

func (r *fakeProtocolRepo) UpsertProtocol(_ context.Context, p entities.Protocol) (*entities.Protocol, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return nil, false, r.upsertErr
	}
	_, exists := r.items[p.ID]
	if !exists {
		r.order = append(r.order, p.ID)
	}
	p.Steps = entities.CloneSteps(p.Steps)
	r.items[p.ID] = p
	r.upserts++
	saved := p
	return &saved, !exists, nil
}

func (r *fakeProtocolRepo) ReplaceSteps(_ context.Context, id string, steps []entities.ProtocolStep) (*entities.Protocol, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.replaceErr != nil {
		return nil, r.replaceErr
	}
	p, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	p.Steps = entities.CloneSteps(steps)
	r.items[id] = p
	saved := p
	return &saved, nil
}

func (r *fakeProtocolRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// scriptedProvider отвечает заготовленными данными. Если gate задан,
// каждый вызов сначала сообщает в started и ждёт закрытия gate.
type scriptedProvider struct {
	similar  []uint64
	steps    []suggestions.GeneratedStep
	imageURL string
	err      error

	gate    chan struct{}
	started chan struct{}

	mu    sync.Mutex
	calls int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) wait(ctx context.Context) error {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.gate == nil {
		return nil
	}
	if p.started != nil {
		p.started <- struct{}{}
	}
	select {
	case <-p.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *scriptedProvider) FindSimilarEquipment(ctx context.Context, _ suggestions.EquipmentDescriptor, _ []suggestions.EquipmentDescriptor) ([]uint64, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return append([]uint64(nil), p.similar...), p.err
}

func (p *scriptedProvider) GenerateProtocolSteps(ctx context.Context, _ suggestions.EquipmentDescriptor) ([]suggestions.GeneratedStep, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return append([]suggestions.GeneratedStep(nil), p.steps...), p.err
}

func (p *scriptedProvider) GenerateStepImage(ctx context.Context, _ suggestions.EquipmentDescriptor, _ string) (string, error) {
	if err := p.wait(ctx); err != nil {
		return "", err
	}
	return p.imageURL, p.err
}

const (
	refID uint64 = iota + 1
	eqBID
	eqCID
	twinID
	accessID
	detectorID
)

// testCatalog: эталон "Domo PTZ/Hikvision/DS-2", два похожих другого типа,
// двойник эталона, привязанный контроль доступа и детектор на складе.
func testCatalog() []entities.Equipment {
	return []entities.Equipment{
		{ID: refID, Name: "Domo entrada", Type: "Domo PTZ", Brand: "Hikvision", Model: "DS-2", Status: entities.EquipmentStatusActive, ClientID: null.Uint64From(1)},
		{ID: eqBID, Name: "Bala patio", Type: "Bala", Brand: "Hikvision", Model: "DS-2B", Status: entities.EquipmentStatusActive, ClientID: null.Uint64From(1)},
		{ID: eqCID, Name: "Bala parking", Type: "Bala", Brand: "Hikvision", Model: "DS-2C", Status: entities.EquipmentStatusActive, ClientID: null.Uint64From(2)},
		{ID: twinID, Name: "Domo salida", Type: "Domo PTZ", Brand: "Hikvision", Model: "DS-2", Status: entities.EquipmentStatusActive, ClientID: null.Uint64From(2)},
		{ID: accessID, Name: "Lector puerta", Type: "Acceso", Brand: "ZKTeco", Model: "F18", Status: entities.EquipmentStatusActive},
		{ID: detectorID, Name: "Detector humo", Type: "Detector", Brand: "Bosch", Model: "D1", Status: entities.EquipmentStatusWarehouse},
	}
}

func accessProtocol() entities.Protocol {
	return entities.Protocol{
		ID: "acceso-zkteco-f18", Type: "Acceso", Brand: "ZKTeco", Model: "F18",
		Steps: []entities.ProtocolStep{{Step: "Limpiar lector", Priority: entities.PriorityMedium, Percentage: 100}},
	}
}

func twoGeneratedSteps() []suggestions.GeneratedStep {
	return []suggestions.GeneratedStep{
		{Step: "Limpiar domo", Priority: "media", Percentage: 50},
		{Step: "Probar PTZ", Percentage: 50},
	}
}

type fixture struct {
	equipment *fakeEquipmentRepo
	protocols *fakeProtocolRepo
	provider  *scriptedProvider
	deps      WorkflowDeps
}

func newFixture() *fixture {
	f := &fixture{
		equipment: &fakeEquipmentRepo{items: testCatalog()},
		protocols: newFakeProtocolRepo(accessProtocol()),
		provider:  &scriptedProvider{similar: []uint64{eqBID, eqCID}, steps: twoGeneratedSteps(), imageURL: "https://img.test/1.png"},
	}
	f.deps = WorkflowDeps{
		EquipmentRepo: f.equipment,
		ProtocolRepo:  f.protocols,
		Provider:      f.provider,
		Logger:        zap.NewNop(),
	}
	return f
}
