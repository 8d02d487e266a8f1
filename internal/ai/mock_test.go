package ai

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/callsight/backend/internal/analysis"
)

// The mock must round-trip through the normalizer to the fallback
// record verbatim: that is what an unconfigured deployment serves.
func TestMockCompleterNormalizesToFallback(t *testing.T) {
	raw, err := MockCompleter{}.Complete(context.Background(), "any prompt")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	fb := analysis.Fallback()
	got, parsed := analysis.Normalize(raw, fb)
	if !parsed {
		t.Fatalf("mock output must be valid json: %q", raw)
	}
	got.Raw = ""

	gotJSON, _ := json.Marshal(got)
	wantJSON, _ := json.Marshal(fb)
	if string(gotJSON) != string(wantJSON) {
		t.Fatalf("mock output does not normalize to the fallback record:\n got %s\nwant %s", gotJSON, wantJSON)
	}
}
