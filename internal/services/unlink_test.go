package services

import (
	"context"
	"errors"
	"testing"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkService_UnlinkMovesEquipmentOut(t *testing.T) {
	f := newFixture()
	links := NewLinkService(f.deps)
	ctx := context.Background()

	updated, err := links.Unlink(ctx, accessID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsExplicitlyUnlinked())
	assert.Equal(t, "Acceso", updated.Type, "тип оборудования не портится")

	protocols, err := f.protocols.ListProtocols(ctx)
	require.NoError(t, err)
	result := Classify(f.equipment.items, protocols)
	assert.NotContains(t, ids(classifiedEquipment(result.WithProtocol)), accessID)
	assert.Contains(t, ids(result.WithoutProtocol), accessID)

	assert.Equal(t, 2, f.protocols.count(), "протокол не удаляется")
}

func classifiedEquipment(items []ClassifiedEquipment) []entities.Equipment {
	out := make([]entities.Equipment, len(items))
	for i, item := range items {
		out[i] = item.Equipment
	}
	return out
}

func TestLinkService_UnlinkValidation(t *testing.T) {
	f := newFixture()
	links := NewLinkService(f.deps)
	ctx := context.Background()

	_, err := links.Unlink(ctx, 0, true)
	assert.True(t, apperrors.IsValidation(err))

	_, err = links.Unlink(ctx, accessID, false)
	assert.True(t, apperrors.IsValidation(err), "без подтверждения")

	_, err = links.Unlink(ctx, refID, true)
	assert.True(t, apperrors.IsValidation(err), "нечего отвязывать")

	_, err = links.Unlink(ctx, 999, true)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Empty(t, f.equipment.updates)
}

func TestLinkService_UnlinkPersistenceFailure(t *testing.T) {
	f := newFixture()
	f.equipment.updateErr = errors.New("conn closed")

	_, err := NewLinkService(f.deps).Unlink(context.Background(), accessID, true)
	assert.True(t, apperrors.IsPersistence(err))
	assert.False(t, f.equipment.get(accessID).LinkedProtocolID.Valid)
}

func TestLinkService_RelinkRestoresDerivedMatch(t *testing.T) {
	f := newFixture()
	links := NewLinkService(f.deps)
	ctx := context.Background()

	_, err := links.Unlink(ctx, accessID, true)
	require.NoError(t, err)

	updated, err := links.Relink(ctx, accessID)
	require.NoError(t, err)
	assert.False(t, updated.LinkedProtocolID.Valid)

	protocols, err := f.protocols.ListProtocols(ctx)
	require.NoError(t, err)
	_, linked := newProtocolIndex(protocols).match(*updated)
	assert.True(t, linked)

	_, err = links.Relink(ctx, accessID)
	assert.True(t, apperrors.IsValidation(err), "повторно снимать нечего")
}

func TestLinkService_RelinkRepairsLegacyType(t *testing.T) {
	f := newFixture()
	f.equipment.items[accessID-1].Type = entities.LegacyUnlinkedTypePrefix + "Acceso"
	links := NewLinkService(f.deps)

	updated, err := links.Relink(context.Background(), accessID)
	require.NoError(t, err)
	assert.Equal(t, "Acceso", updated.Type)
}

func TestLinkService_RelinkClearsPin(t *testing.T) {
	f := newFixture()
	f.equipment.items[refID-1].LinkedProtocolID = null.StringFrom("acceso-zkteco-f18")
	links := NewLinkService(f.deps)

	updated, err := links.Relink(context.Background(), refID)
	require.NoError(t, err)
	assert.False(t, updated.LinkedProtocolID.Valid)
}
