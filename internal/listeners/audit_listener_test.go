package listeners

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/pkg/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memoryAudit struct {
	mu      sync.Mutex
	entries []entities.AuditEntry
	err     error
}

func (r *memoryAudit) Insert(_ context.Context, entry entities.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func TestAuditListener_RecordsEvents(t *testing.T) {
	repo := &memoryAudit{}
	bus := eventbus.New(zap.NewNop())
	NewAuditListener(repo, zap.NewNop()).Register(bus)

	at := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	ctx := context.Background()
	bus.Publish(ctx, events.ProtocolSavedEvent{ProtocolID: "domo-ptz-hikvision-ds-2", Created: true, Mode: "grouping", EquipmentIDs: []uint64{1, 2}, StepCount: 3, ActorID: 7, At: at})
	bus.Publish(ctx, events.EquipmentUnlinkedEvent{EquipmentID: 2, ProtocolID: "domo-ptz-hikvision-ds-2", At: at})
	bus.Wait()

	require.Len(t, repo.entries, 2)
	byEvent := make(map[string]entities.AuditEntry)
	for _, e := range repo.entries {
		byEvent[e.Event] = e
	}

	saved := byEvent[events.ProtocolSavedEventName]
	assert.Equal(t, "domo-ptz-hikvision-ds-2", saved.ProtocolID.String)
	assert.Equal(t, uint64(7), saved.ActorID.Uint64)
	assert.Equal(t, 3, saved.Payload["step_count"])
	assert.False(t, saved.EquipmentID.Valid)

	unlinked := byEvent[events.EquipmentUnlinkedEventName]
	assert.Equal(t, uint64(2), unlinked.EquipmentID.Uint64)
	assert.False(t, unlinked.ActorID.Valid, "действие без пользователя (CLI)")
}

func TestAuditListener_InsertFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := eventbus.New(zap.New(core))
	NewAuditListener(&memoryAudit{err: errors.New("disk full")}, zap.NewNop()).Register(bus)

	bus.Publish(context.Background(), events.EquipmentRelinkedEvent{EquipmentID: 4, At: time.Now()})
	bus.Wait()

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].ContextMap()["error"], "disk full")
}
