package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/callsight/backend/internal/ai"
	"github.com/callsight/backend/internal/analysis"
	"github.com/callsight/backend/internal/models"
	"github.com/callsight/backend/internal/store"
	"github.com/callsight/backend/internal/utils"
)

// AnalyzeService runs the full pipeline for one call: active script →
// prompt → completion → normalize → store. Each request is strictly
// sequential; the completion call is the only slow step.
type AnalyzeService struct {
	Store  store.Store
	AI     ai.Completer
	Logger zerolog.Logger
}

type AnalyzeInput struct {
	AgentName  string
	Notes      string
	Transcript string
	Filename   string
}

func (s *AnalyzeService) Analyze(ctx context.Context, in AnalyzeInput) (models.CallRecord, error) {
	fallback := analysis.Fallback()

	var script string
	if sc, err := s.Store.GetActiveScript(ctx); err == nil {
		script = sc.Content
	} else {
		s.Logger.Warn().Err(err).Msg("no active script, analyzing without rubric")
	}

	prompt := analysis.BuildPrompt(analysis.PromptInput{
		AgentName:  in.AgentName,
		Notes:      in.Notes,
		Transcript: in.Transcript,
		Script:     script,
	})

	var result models.Analysis
	raw, err := s.AI.Complete(ctx, prompt)
	if err != nil {
		// Upstream failure degrades to the canned record, never to an
		// error the client sees.
		s.Logger.Warn().Err(err).Msg("ai completion failed, using fallback analysis")
		result = fallback
	} else {
		var parsed bool
		result, parsed = analysis.Normalize(raw, fallback)
		if !parsed {
			s.Logger.Warn().Str("raw", truncate(raw, 256)).Msg("ai response was not valid json, using fallback analysis")
		}
	}

	agent := strings.TrimSpace(in.AgentName)
	if agent == "" {
		agent = "Unknown"
	}
	filename := strings.TrimSpace(in.Filename)
	if filename == "" {
		filename = models.NoFile
	}

	now := time.Now().UTC()
	rec := models.CallRecord{
		ID:         newCallID(now, in.Transcript),
		AgentName:  agent,
		Notes:      in.Notes,
		Transcript: in.Transcript,
		Filename:   filename,
		CreatedAt:  now,
		Analysis:   result,
	}

	if err := s.Store.AppendCall(ctx, rec); err != nil {
		return models.CallRecord{}, fmt.Errorf("store call: %w", err)
	}
	return rec, nil
}

// newCallID is timestamp-derived with a short content-hash suffix to
// keep ids unique even for requests landing in the same nanosecond.
func newCallID(now time.Time, transcript string) string {
	return fmt.Sprintf("call_%d_%04d", now.UnixNano(), utils.HashStringToUint64(transcript)%10000)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
