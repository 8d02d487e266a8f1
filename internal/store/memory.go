package store

import (
	"context"
	"sync"

	"github.com/callsight/backend/internal/models"
)

// Memory keeps everything in process memory. Used for tests and for
// STORE_DRIVER=memory deployments that accept losing data on restart.
type Memory struct {
	mu      sync.RWMutex
	calls   []models.CallRecord
	scripts []models.Script
}

func NewMemory() *Memory {
	return &Memory{scripts: []models.Script{DefaultScript()}}
}

func (m *Memory) AppendCall(ctx context.Context, rec models.CallRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append([]models.CallRecord{rec}, m.calls...)
	return nil
}

func (m *Memory) ListCalls(ctx context.Context) ([]models.CallRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.CallRecord, len(m.calls))
	copy(out, m.calls)
	return out, nil
}

func (m *Memory) GetCall(ctx context.Context, id string) (models.CallRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.calls {
		if rec.ID == id {
			return rec, nil
		}
	}
	return models.CallRecord{}, ErrNotFound
}

func (m *Memory) ListScripts(ctx context.Context) ([]models.Script, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Script, len(m.scripts))
	copy(out, m.scripts)
	return out, nil
}

func (m *Memory) GetActiveScript(ctx context.Context) (models.Script, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := activeScript(m.scripts)
	if !ok {
		return models.Script{}, ErrNotFound
	}
	return s, nil
}

func (m *Memory) UpdateScript(ctx context.Context, id string, patch models.ScriptPatch) (models.Script, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return applyScriptPatch(m.scripts, id, patch)
}

func (m *Memory) State(ctx context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := Snapshot{
		Scripts: make([]models.Script, len(m.scripts)),
		Calls:   make([]models.CallRecord, len(m.calls)),
	}
	copy(snap.Scripts, m.scripts)
	copy(snap.Calls, m.calls)
	return snap, nil
}

func (m *Memory) Close() error { return nil }
