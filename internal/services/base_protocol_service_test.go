package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/filestorage"
	"maintenance-system/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestService(t *testing.T, f *fixture) (*BaseProtocolService, string) {
	t.Helper()
	dir := t.TempDir()
	storage, err := filestorage.NewLocalFileStorage(dir, "/uploads")
	require.NoError(t, err)
	// CleanupInterval 0: без фоновой горутины очистки
	return NewBaseProtocolService(f.deps, storage, SessionConfig{TTL: time.Minute}), dir
}

func asUser(id uint64) context.Context {
	return utils.WithUser(context.Background(), id, authz.RoleSupervisor)
}

func TestBaseProtocolService_SessionsBelongToOwner(t *testing.T) {
	svc, _ := newTestService(t, newFixture())
	alice, bob := asUser(1), asUser(2)

	_, _, err := svc.StartWorkflow(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	sessionID, engine, err := svc.StartWorkflow(alice)
	require.NoError(t, err)
	_, err = engine.SelectReference(alice, refID, entities.EquipmentFilter{})
	require.NoError(t, err)

	same, err := svc.Workflow(alice, sessionID)
	require.NoError(t, err)
	assert.Equal(t, StateReferenceSelected, same.Snapshot().State)

	_, err = svc.Workflow(bob, sessionID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	assert.ErrorIs(t, svc.CloseWorkflow(bob, sessionID), apperrors.ErrSessionNotFound)

	require.NoError(t, svc.CloseWorkflow(alice, sessionID))
	_, err = svc.Workflow(alice, sessionID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
	assert.Equal(t, StateIdle, engine.Snapshot().State)
}

func TestBaseProtocolService_EditorSessions(t *testing.T) {
	svc, _ := newTestService(t, newFixture())
	ctx := asUser(7)

	_, _, err := svc.OpenEditor(ctx, refID)
	assert.True(t, apperrors.IsValidation(err))

	sessionID, editor, err := svc.OpenEditor(ctx, accessID)
	require.NoError(t, err)
	assert.True(t, editor.Snapshot().Open)

	found, err := svc.Editor(ctx, sessionID)
	require.NoError(t, err)
	assert.Same(t, editor, found)

	_, err = svc.Workflow(ctx, sessionID)
	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound, "id редактора не открывает мастер")

	require.NoError(t, svc.CloseEditor(ctx, sessionID))
	assert.False(t, editor.Snapshot().Open)
}

func TestBaseProtocolService_ClassifyWithFilter(t *testing.T) {
	svc, _ := newTestService(t, newFixture())
	warehouse := true

	result, err := svc.ClassifyEquipment(context.Background(), entities.EquipmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, []uint64{accessID}, ids(classifiedEquipment(result.WithProtocol)))
	assert.Len(t, result.WithoutProtocol, 5)

	result, err = svc.ClassifyEquipment(context.Background(), entities.EquipmentFilter{Warehouse: &warehouse})
	require.NoError(t, err)
	assert.Empty(t, result.WithProtocol)
	assert.Equal(t, []uint64{detectorID}, ids(result.WithoutProtocol))
}

func TestBaseProtocolService_ExportClassification(t *testing.T) {
	svc, _ := newTestService(t, newFixture())

	f, err := svc.ExportClassification(context.Background(), entities.EquipmentFilter{})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Con protocolo", "Sin protocolo"}, f.GetSheetList())

	with, err := f.GetRows("Con protocolo")
	require.NoError(t, err)
	require.Len(t, with, 2)
	assert.Equal(t, "Lector puerta", with[1][1])
	assert.Equal(t, "acceso-zkteco-f18", with[1][8])

	without, err := f.GetRows("Sin protocolo")
	require.NoError(t, err)
	assert.Len(t, without, 6)
}

func TestExportSheetErrorsAreReturned(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	assert.Error(t, styleExportSheet(f, "Sheet1", 999), "несуществующий стиль")
	assert.Error(t, styleExportSheet(f, "Нет такого листа", 0))
	assert.Error(t, writeExportRows(f, "Нет такого листа", [][]interface{}{{1, "Domo"}}))
}

func TestBaseProtocolService_ListAndFindProtocols(t *testing.T) {
	f := newFixture()
	svc, _ := newTestService(t, f)

	list, err := svc.ListProtocols(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)

	p, err := svc.FindProtocol(context.Background(), "acceso-zkteco-f18")
	require.NoError(t, err)
	assert.Equal(t, "ZKTeco", p.Brand)

	_, err = svc.FindProtocol(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBaseProtocolService_StepImageFiles(t *testing.T) {
	svc, dir := newTestService(t, newFixture())
	ctx := asUser(1)

	url, err := svc.SaveStepImage(ctx, strings.NewReader("png-bytes"), "foto.png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/protocol-steps/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	path := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, "/uploads/")))
	_, err = os.Stat(path)
	require.NoError(t, err)

	svc.DiscardStepImage(ctx, url)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Внешние URL не трогаются
	svc.DiscardStepImage(ctx, "https://img.test/1.png")
}

func TestBaseProtocolService_UnlinkAndRelink(t *testing.T) {
	f := newFixture()
	svc, _ := newTestService(t, f)
	ctx := asUser(1)

	_, err := svc.Unlink(ctx, accessID, true)
	require.NoError(t, err)
	result, err := svc.ClassifyEquipment(ctx, entities.EquipmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, result.WithProtocol)

	_, err = svc.Relink(ctx, accessID)
	require.NoError(t, err)
	result, err = svc.ClassifyEquipment(ctx, entities.EquipmentFilter{})
	require.NoError(t, err)
	assert.Len(t, result.WithProtocol, 1)
}
