package ai

import (
	"context"
	"encoding/json"
	"math"

	"github.com/callsight/backend/internal/analysis"
)

// MockCompleter stands in when no credential is configured. It emits
// the canned fallback analysis as the JSON document the prompt asks
// for, so an unconfigured deployment still exercises the full
// normalize-and-store path and ends up with the fallback record.
type MockCompleter struct{}

func (m MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	fb := analysis.Fallback()

	doc := map[string]any{
		"qualityScore":              fb.QualityScore,
		"sentiment":                 fb.Sentiment,
		"appointmentOutcome":        fb.AppointmentOutcome,
		"conversionScore":           fb.ConversionScore,
		"scriptAdherencePercent":    int(math.Round(fb.ScriptAdherence * 100)),
		"skills":                    fb.Skills,
		"coachingSummary":           fb.CoachingSummary,
		"scriptAdherenceSummary":    fb.ScriptAdherenceSummary,
		"appointmentRecommendation": fb.AppointmentRecommendation,
		"timeline":                  fb.Timeline,
		"keyObjections":             fb.KeyObjections,
		"strengths":                 fb.Strengths,
		"improvements":              fb.Improvements,
		"coachingPlan":              fb.CoachingPlan,
		"recommendedPhrases":        fb.RecommendedPhrases,
		"phrasesToAvoid":            fb.PhrasesToAvoid,
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
