package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/callsight/backend/internal/models"
)

// JSONFile persists the whole state as one pretty-printed UTF-8
// document, rewritten in full on every mutation. A single writer mutex
// serializes mutations within the process; writes go through a temp
// file and rename so a crash mid-write cannot leave a torn document.
type JSONFile struct {
	mu   sync.Mutex
	path string
	doc  Snapshot
}

func NewJSONFile(path string) (*JSONFile, error) {
	f := &JSONFile{path: path}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	f.doc = loadDocument(path)
	if len(f.doc.Scripts) == 0 {
		f.doc.Scripts = []models.Script{DefaultScript()}
		if err := f.save(); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// loadDocument treats a missing, unreadable or corrupt file as "no
// data yet" rather than a startup failure.
func loadDocument(path string) Snapshot {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}
	}
	var doc Snapshot
	if err := json.Unmarshal(data, &doc); err != nil {
		return Snapshot{}
	}
	return doc
}

func (f *JSONFile) save() error {
	data, err := json.MarshalIndent(f.doc, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".callsight-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *JSONFile) AppendCall(ctx context.Context, rec models.CallRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.doc.Calls = append([]models.CallRecord{rec}, f.doc.Calls...)
	return f.save()
}

func (f *JSONFile) ListCalls(ctx context.Context) ([]models.CallRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.CallRecord, len(f.doc.Calls))
	copy(out, f.doc.Calls)
	return out, nil
}

func (f *JSONFile) GetCall(ctx context.Context, id string) (models.CallRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.doc.Calls {
		if rec.ID == id {
			return rec, nil
		}
	}
	return models.CallRecord{}, ErrNotFound
}

func (f *JSONFile) ListScripts(ctx context.Context) ([]models.Script, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Script, len(f.doc.Scripts))
	copy(out, f.doc.Scripts)
	return out, nil
}

func (f *JSONFile) GetActiveScript(ctx context.Context) (models.Script, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := activeScript(f.doc.Scripts)
	if !ok {
		return models.Script{}, ErrNotFound
	}
	return s, nil
}

func (f *JSONFile) UpdateScript(ctx context.Context, id string, patch models.ScriptPatch) (models.Script, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, err := applyScriptPatch(f.doc.Scripts, id, patch)
	if err != nil {
		return models.Script{}, err
	}
	if err := f.save(); err != nil {
		return models.Script{}, err
	}
	return s, nil
}

func (f *JSONFile) State(ctx context.Context) (Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := Snapshot{
		Scripts: make([]models.Script, len(f.doc.Scripts)),
		Calls:   make([]models.CallRecord, len(f.doc.Calls)),
	}
	copy(snap.Scripts, f.doc.Scripts)
	copy(snap.Calls, f.doc.Calls)
	return snap, nil
}

func (f *JSONFile) Close() error { return nil }
