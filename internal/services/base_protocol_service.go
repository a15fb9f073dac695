package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"maintenance-system/config"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/filestorage"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	workflowKeyPrefix = "workflow:"
	editorKeyPrefix   = "editor:"
	stepImageContext  = "step_image"
)

type BaseProtocolServiceInterface interface {
	ListProtocols(ctx context.Context) ([]entities.Protocol, error)
	FindProtocol(ctx context.Context, id string) (*entities.Protocol, error)
	ClassifyEquipment(ctx context.Context, filter entities.EquipmentFilter) (ClassificationResult, error)
	ExportClassification(ctx context.Context, filter entities.EquipmentFilter) (*excelize.File, error)

	Unlink(ctx context.Context, equipmentID uint64, confirmed bool) (*entities.Equipment, error)
	Relink(ctx context.Context, equipmentID uint64) (*entities.Equipment, error)

	StartWorkflow(ctx context.Context) (string, *GroupingEngine, error)
	Workflow(ctx context.Context, sessionID string) (*GroupingEngine, error)
	CloseWorkflow(ctx context.Context, sessionID string) error

	OpenEditor(ctx context.Context, equipmentID uint64) (string, *ProtocolEditor, error)
	Editor(ctx context.Context, sessionID string) (*ProtocolEditor, error)
	CloseEditor(ctx context.Context, sessionID string) error

	SaveStepImage(ctx context.Context, file io.Reader, fileName string) (string, error)
	DiscardStepImage(ctx context.Context, url string)
}

// SessionConfig - время жизни сессий мастера и редактора.
// CleanupInterval <= 0 отключает фоновую очистку, просроченные сессии всё равно не выдаются.
type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type session struct {
	ownerID  uint64
	workflow *GroupingEngine
	editor   *ProtocolEditor
}

type BaseProtocolService struct {
	deps        WorkflowDeps
	links       *LinkService
	sessions    *cache.Cache
	fileStorage filestorage.FileStorageInterface
	logger      *zap.Logger
}

func NewBaseProtocolService(deps WorkflowDeps, fileStorage filestorage.FileStorageInterface, sessionCfg SessionConfig) *BaseProtocolService {
	return &BaseProtocolService{
		deps:        deps,
		links:       NewLinkService(deps),
		sessions:    cache.New(sessionCfg.TTL, sessionCfg.CleanupInterval),
		fileStorage: fileStorage,
		logger:      deps.Logger,
	}
}

func (s *BaseProtocolService) ListProtocols(ctx context.Context) ([]entities.Protocol, error) {
	list, err := s.deps.ProtocolRepo.ListProtocols(ctx)
	if err != nil {
		return nil, apperrors.NewPersistenceError("list_protocols", err)
	}
	return list, nil
}

func (s *BaseProtocolService) FindProtocol(ctx context.Context, id string) (*entities.Protocol, error) {
	p, err := s.deps.ProtocolRepo.FindProtocol(ctx, id)
	if err != nil {
		return nil, wrapRead("find_protocol", err)
	}
	return p, nil
}

// ClassifyEquipment - экран "Протоколы Base": оборудование с протоколом и без.
// Фильтры применяются в SQL, связь с протоколами вычисляется заново.
func (s *BaseProtocolService) ClassifyEquipment(ctx context.Context, filter entities.EquipmentFilter) (ClassificationResult, error) {
	snap, err := s.deps.loadCatalog(ctx, filter)
	if err != nil {
		return ClassificationResult{}, err
	}
	return Classify(snap.equipment, snap.protocols), nil
}

var exportHeaders = []interface{}{"ID", "Nombre", "Tipo", "Marca", "Modelo", "Serie", "Ubicación", "Estado", "Protocolo"}

func equipmentRow(e entities.Equipment, protocolID string) []interface{} {
	return []interface{}{e.ID, e.Name, e.Type, e.Brand, e.Model, e.Serial, e.Location, e.Status, protocolID}
}

// ExportClassification собирает xlsx с двумя листами: с протоколом и без.
func (s *BaseProtocolService) ExportClassification(ctx context.Context, filter entities.EquipmentFilter) (*excelize.File, error) {
	result, err := s.ClassifyEquipment(ctx, filter)
	if err != nil {
		return nil, err
	}

	withRows := make([][]interface{}, len(result.WithProtocol))
	for i, item := range result.WithProtocol {
		withRows[i] = equipmentRow(item.Equipment, item.Protocol.ID)
	}
	withoutRows := make([][]interface{}, len(result.WithoutProtocol))
	for i, e := range result.WithoutProtocol {
		withoutRows[i] = equipmentRow(e, "")
	}

	f := excelize.NewFile()
	if err := fillExport(f, withRows, withoutRows); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("формирование xlsx: %w", err)
	}
	return f, nil
}

func fillExport(f *excelize.File, withRows, withoutRows [][]interface{}) error {
	withSheet, withoutSheet := "Con protocolo", "Sin protocolo"
	if err := f.SetSheetName("Sheet1", withSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(withoutSheet); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{withSheet, withRows},
		{withoutSheet, withoutRows},
	}
	for _, sheet := range sheets {
		if err := styleExportSheet(f, sheet.name, style); err != nil {
			return err
		}
		if err := writeExportRows(f, sheet.name, sheet.rows); err != nil {
			return err
		}
	}
	return nil
}

func styleExportSheet(f *excelize.File, sheet string, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &exportHeaders); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", headerStyle); err != nil {
		return err
	}
	widths := []struct {
		from, to string
		width    float64
	}{
		{"B", "B", 30},
		{"C", "G", 20},
		{"I", "I", 35},
	}
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return err
		}
	}
	return nil
}

func writeExportRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *BaseProtocolService) Unlink(ctx context.Context, equipmentID uint64, confirmed bool) (*entities.Equipment, error) {
	return s.links.Unlink(ctx, equipmentID, confirmed)
}

func (s *BaseProtocolService) Relink(ctx context.Context, equipmentID uint64) (*entities.Equipment, error) {
	return s.links.Relink(ctx, equipmentID)
}

func (s *BaseProtocolService) owner(ctx context.Context) (uint64, error) {
	id := actorID(ctx)
	if id == 0 {
		return 0, apperrors.ErrUnauthorized
	}
	return id, nil
}

// lookup возвращает сессию только её владельцу и продлевает ей жизнь.
func (s *BaseProtocolService) lookup(ctx context.Context, key string) (*session, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return nil, err
	}
	raw, found := s.sessions.Get(key)
	if !found {
		return nil, apperrors.ErrSessionNotFound
	}
	sess := raw.(*session)
	if sess.ownerID != ownerID {
		return nil, apperrors.ErrSessionNotFound
	}
	s.sessions.Set(key, sess, cache.DefaultExpiration)
	return sess, nil
}

func (s *BaseProtocolService) StartWorkflow(ctx context.Context) (string, *GroupingEngine, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return "", nil, err
	}
	sessionID := uuid.NewString()
	engine := NewGroupingEngine(s.deps)
	s.sessions.Set(workflowKeyPrefix+sessionID, &session{ownerID: ownerID, workflow: engine}, cache.DefaultExpiration)

	s.logger.Info("Начата сессия мастера базовых протоколов", zap.String("session_id", sessionID), zap.Uint64("user_id", ownerID))
	return sessionID, engine, nil
}

func (s *BaseProtocolService) Workflow(ctx context.Context, sessionID string) (*GroupingEngine, error) {
	sess, err := s.lookup(ctx, workflowKeyPrefix+sessionID)
	if err != nil {
		return nil, err
	}
	return sess.workflow, nil
}

func (s *BaseProtocolService) CloseWorkflow(ctx context.Context, sessionID string) error {
	engine, err := s.Workflow(ctx, sessionID)
	if err != nil {
		return err
	}
	engine.Reset()
	s.sessions.Delete(workflowKeyPrefix + sessionID)
	return nil
}

func (s *BaseProtocolService) OpenEditor(ctx context.Context, equipmentID uint64) (string, *ProtocolEditor, error) {
	ownerID, err := s.owner(ctx)
	if err != nil {
		return "", nil, err
	}
	editor := NewProtocolEditor(s.deps)
	if _, err := editor.Open(ctx, equipmentID); err != nil {
		return "", nil, err
	}
	sessionID := uuid.NewString()
	s.sessions.Set(editorKeyPrefix+sessionID, &session{ownerID: ownerID, editor: editor}, cache.DefaultExpiration)
	return sessionID, editor, nil
}

func (s *BaseProtocolService) Editor(ctx context.Context, sessionID string) (*ProtocolEditor, error) {
	sess, err := s.lookup(ctx, editorKeyPrefix+sessionID)
	if err != nil {
		return nil, err
	}
	return sess.editor, nil
}

func (s *BaseProtocolService) CloseEditor(ctx context.Context, sessionID string) error {
	editor, err := s.Editor(ctx, sessionID)
	if err != nil {
		return err
	}
	editor.Cancel()
	s.sessions.Delete(editorKeyPrefix + sessionID)
	return nil
}

// SaveStepImage сохраняет загруженную картинку шага и возвращает её URL.
func (s *BaseProtocolService) SaveStepImage(ctx context.Context, file io.Reader, fileName string) (string, error) {
	rules, ok := config.UploadContexts[stepImageContext]
	if !ok {
		return "", fmt.Errorf("не настроен контекст загрузки %q", stepImageContext)
	}
	url, err := s.fileStorage.Save(file, fileName, rules.PathPrefix)
	if err != nil {
		return "", apperrors.NewPersistenceError("save_step_image", err)
	}
	return url, nil
}

// DiscardStepImage удаляет файл, который так и не попал в шаг (например, шаг уже удалён).
func (s *BaseProtocolService) DiscardStepImage(ctx context.Context, url string) {
	if strings.TrimSpace(url) == "" {
		return
	}
	if err := s.fileStorage.Delete(url); err != nil {
		s.logger.Warn("Не удалось удалить файл изображения", zap.String("url", url), zap.Error(err))
	}
}
