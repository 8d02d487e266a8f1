package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/callsight/backend/internal/ai"
	"github.com/callsight/backend/internal/analysis"
	"github.com/callsight/backend/internal/models"
	"github.com/callsight/backend/internal/service"
	"github.com/callsight/backend/internal/store"
)

type countingCompleter struct {
	response string
	calls    int
}

func (c *countingCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	c.calls++
	return c.response, nil
}

func newTestRouter(t *testing.T, st store.Store, completer ai.Completer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := &Handler{
		Store:     st,
		Analyzer:  &service.AnalyzeService{Store: st, AI: completer, Logger: zerolog.Nop()},
		Validator: validator.New(),
		Logger:    zerolog.Nop(),
		UploadDir: t.TempDir(),
	}

	r := gin.New()
	r.GET("/", h.Dashboard)
	r.GET("/healthz", h.Healthz)
	r.POST("/upload", h.Upload)
	r.GET("/api/calls", h.CallsList)
	r.GET("/api/calls/:id", h.CallDetails)
	r.POST("/api/calls/analyze", h.AnalyzeCall)
	r.GET("/api/state", h.State)
	r.GET("/api/scripts", h.ScriptsList)
	r.PUT("/api/scripts/:id", h.ScriptUpdate)
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeMissingTranscriptRejected(t *testing.T) {
	st := store.NewMemory()
	completer := &countingCompleter{response: `{}`}
	r := newTestRouter(t, st, completer)

	for _, body := range []map[string]string{
		{"agentName": "Dana"},
		{"agentName": "Dana", "transcript": "   "},
	} {
		w := doJSON(r, http.MethodPost, "/api/calls/analyze", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	}

	if completer.calls != 0 {
		t.Fatalf("no AI call may happen for a rejected request, got %d", completer.calls)
	}
	calls, _ := st.ListCalls(context.Background())
	if len(calls) != 0 {
		t.Fatalf("no record may be stored for a rejected request, got %d", len(calls))
	}
}

func TestAnalyzePartialResponse(t *testing.T) {
	st := store.NewMemory()
	completer := &countingCompleter{response: `{"qualityScore": 92, "appointmentOutcome": "Booked"}`}
	r := newTestRouter(t, st, completer)

	w := doJSON(r, http.MethodPost, "/api/calls/analyze", map[string]string{
		"agentName":  "Dana",
		"transcript": "Customer: hello",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var rec models.CallRecord
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.QualityScore != 92 {
		t.Fatalf("expected qualityScore 92, got %d", rec.QualityScore)
	}
	if rec.AppointmentOutcome != models.OutcomeBooked {
		t.Fatalf("expected Booked, got %q", rec.AppointmentOutcome)
	}
	if rec.ScriptAdherence != 0.75 {
		t.Fatalf("expected fallback adherence 0.75, got %f", rec.ScriptAdherence)
	}
	if rec.Sentiment != models.SentimentPositive {
		t.Fatalf("expected derived Positive, got %q", rec.Sentiment)
	}

	stored, err := st.GetCall(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("record not stored: %v", err)
	}
	if stored.QualityScore != 92 {
		t.Fatalf("stored record differs: %+v", stored)
	}
}

func TestUploadUnconfiguredCredentialServesFallback(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(t, st, ai.MockCompleter{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("agentName", "Dana")
	_ = writer.WriteField("notes", "first call")
	_ = writer.WriteField("transcript", "Customer: hi")
	part, _ := writer.CreateFormFile("audio", "call.mp3")
	_, _ = part.Write([]byte("not really audio"))
	_ = writer.Close()

	req, _ := http.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.ID == "" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}

	rec, err := st.GetCall(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("record not stored: %v", err)
	}
	if rec.Filename != "call.mp3" {
		t.Fatalf("expected uploaded filename, got %q", rec.Filename)
	}

	fb := analysis.Fallback()
	got := rec.Analysis
	got.Raw = ""
	gotJSON, _ := json.Marshal(got)
	wantJSON, _ := json.Marshal(fb)
	if string(gotJSON) != string(wantJSON) {
		t.Fatalf("expected fallback field values verbatim:\n got %s\nwant %s", gotJSON, wantJSON)
	}
}

func TestUploadWithoutAudioUsesSentinel(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(t, st, ai.MockCompleter{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("agentName", "Lee")
	_ = writer.WriteField("transcript", "Customer: hi")
	_ = writer.Close()

	req, _ := http.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	calls, _ := st.ListCalls(context.Background())
	if len(calls) != 1 || calls[0].Filename != models.NoFile {
		t.Fatalf("expected %q sentinel, got %+v", models.NoFile, calls)
	}
}

func TestCallNotFound(t *testing.T) {
	r := newTestRouter(t, store.NewMemory(), &countingCompleter{response: `{}`})

	w := doJSON(r, http.MethodGet, "/api/calls/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Call not found") {
		t.Fatalf("expected descriptive message, got %s", w.Body.String())
	}
}

func TestCallsListNewestFirst(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	_ = st.AppendCall(ctx, models.CallRecord{ID: "c1"})
	_ = st.AppendCall(ctx, models.CallRecord{ID: "c2"})
	r := newTestRouter(t, st, &countingCompleter{response: `{}`})

	w := doJSON(r, http.MethodGet, "/api/calls", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var calls []models.CallRecord
	if err := json.Unmarshal(w.Body.Bytes(), &calls); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(calls) != 2 || calls[0].ID != "c2" || calls[1].ID != "c1" {
		t.Fatalf("expected [c2 c1], got %+v", calls)
	}
}

func TestScriptUpdateAndState(t *testing.T) {
	st := store.NewMemory()
	r := newTestRouter(t, st, &countingCompleter{response: `{}`})

	w := doJSON(r, http.MethodPut, "/api/scripts/script_default", map[string]any{
		"content": "updated rubric",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var script models.Script
	if err := json.Unmarshal(w.Body.Bytes(), &script); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if script.Content != "updated rubric" || !script.Active {
		t.Fatalf("unexpected script: %+v", script)
	}

	w = doJSON(r, http.MethodPut, "/api/scripts/missing", map[string]any{"content": "x"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/api/state", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var snap store.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snap.Scripts) != 1 || snap.Scripts[0].Content != "updated rubric" {
		t.Fatalf("state did not reflect the update: %+v", snap)
	}
}

func TestDashboardShell(t *testing.T) {
	r := newTestRouter(t, store.NewMemory(), &countingCompleter{response: `{}`})

	w := doJSON(r, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "CallSight") {
		t.Fatal("expected dashboard shell")
	}
}
