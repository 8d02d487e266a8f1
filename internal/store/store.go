package store

import (
	"context"
	"errors"

	"github.com/callsight/backend/internal/models"
)

var ErrNotFound = errors.New("store: not found")

// Snapshot is the combined dashboard state and also the exact shape of
// the persisted JSON document.
type Snapshot struct {
	Scripts []models.Script     `json:"scripts"`
	Calls   []models.CallRecord `json:"calls"`
}

// Store owns all call records and scripts. Calls are an append-only
// log kept newest-first; scripts are mutable but never deleted, with
// at most one active at a time — activating one deactivates the rest
// inside the store, not in the caller.
type Store interface {
	AppendCall(ctx context.Context, rec models.CallRecord) error
	ListCalls(ctx context.Context) ([]models.CallRecord, error)
	GetCall(ctx context.Context, id string) (models.CallRecord, error)

	ListScripts(ctx context.Context) ([]models.Script, error)
	GetActiveScript(ctx context.Context) (models.Script, error)
	UpdateScript(ctx context.Context, id string, patch models.ScriptPatch) (models.Script, error)

	State(ctx context.Context) (Snapshot, error)
	Close() error
}

// DefaultScript seeds every empty backing so analysis always has a
// rubric to compare against.
func DefaultScript() models.Script {
	return models.Script{
		ID:     "script_default",
		Name:   "Default Sales Script",
		Active: true,
		Content: `1. Greet the customer, introduce yourself and the company.
2. Confirm who you are speaking with and why they reached out.
3. Discovery: ask open-ended questions about the customer's needs, timeline and budget.
4. Present the recommended solution and tie it back to what the customer said.
5. Handle objections with empathy; acknowledge, clarify, respond.
6. Close: propose a concrete appointment time and confirm it back.
7. Recap next steps and thank the customer.`,
	}
}

// activeScript returns the first script flagged active, falling back
// to the first script positionally.
func activeScript(scripts []models.Script) (models.Script, bool) {
	for _, s := range scripts {
		if s.Active {
			return s, true
		}
	}
	if len(scripts) > 0 {
		return scripts[0], true
	}
	return models.Script{}, false
}

// applyScriptPatch updates the script with the given id in place and
// clears the active flag on all others when the patch activates it.
func applyScriptPatch(scripts []models.Script, id string, patch models.ScriptPatch) (models.Script, error) {
	idx := -1
	for i := range scripts {
		if scripts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Script{}, ErrNotFound
	}

	s := &scripts[idx]
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Content != nil {
		s.Content = *patch.Content
	}
	if patch.Active != nil {
		s.Active = *patch.Active
		if *patch.Active {
			for i := range scripts {
				if i != idx {
					scripts[i].Active = false
				}
			}
		}
	}
	return *s, nil
}
