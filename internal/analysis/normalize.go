package analysis

import (
	"encoding/json"
	"strings"

	"github.com/callsight/backend/internal/models"
)

// Normalize turns whatever text the model returned into a fully
// populated Analysis. Repair is field-granular: each expected field
// takes the parsed value when present and well-typed, otherwise the
// fallback's value for that one field. A response that cannot be
// parsed at all yields the fallback verbatim with the raw text kept
// in the Raw side channel. Normalize never panics.
func Normalize(raw string, fb models.Analysis) (models.Analysis, bool) {
	doc := parseObject(StripFences(raw))
	if doc == nil {
		out := fb
		out.Raw = raw
		return out, false
	}

	out := models.Analysis{
		QualityScore:              clampScore(intField(doc, "qualityScore", fb.QualityScore)),
		AppointmentOutcome:        models.Outcome(stringField(doc, "appointmentOutcome", string(fb.AppointmentOutcome))),
		Skills:                    skillsField(doc, fb.Skills),
		CoachingSummary:           stringField(doc, "coachingSummary", fb.CoachingSummary),
		ScriptAdherenceSummary:    stringField(doc, "scriptAdherenceSummary", fb.ScriptAdherenceSummary),
		AppointmentRecommendation: stringField(doc, "appointmentRecommendation", fb.AppointmentRecommendation),
		Timeline:                  timelineField(doc, fb.Timeline),
		KeyObjections:             stringListField(doc, "keyObjections", fb.KeyObjections),
		Strengths:                 stringListField(doc, "strengths", fb.Strengths),
		Improvements:              stringListField(doc, "improvements", fb.Improvements),
		CoachingPlan:              stringListField(doc, "coachingPlan", fb.CoachingPlan),
		RecommendedPhrases:        stringListField(doc, "recommendedPhrases", fb.RecommendedPhrases),
		PhrasesToAvoid:            stringListField(doc, "phrasesToAvoid", fb.PhrasesToAvoid),
		Raw:                       raw,
	}

	// The prompt asks for a 0-100 percentage; the stored value is a
	// ratio. When the field is absent or non-numeric the fallback ratio
	// is used directly, never divided again.
	if pct, ok := numField(doc, "scriptAdherencePercent"); ok {
		out.ScriptAdherence = float64(clampScore(int(pct))) / 100
	} else {
		out.ScriptAdherence = fb.ScriptAdherence
	}

	// Sentiment policy: a supplied string passes through untouched
	// (unknown values included); otherwise it is derived from the
	// quality score.
	if s := stringField(doc, "sentiment", ""); s != "" {
		out.Sentiment = models.Sentiment(s)
	} else {
		out.Sentiment = DeriveSentiment(out.QualityScore)
	}

	// Likelihood policy: a well-typed conversionScore wins and the
	// label is derived from it; a bare label passes through; neither
	// present means both come from the fallback.
	if score, ok := numField(doc, "conversionScore"); ok {
		out.ConversionScore = clampScore(int(score))
		out.ConversionLikelihood = DeriveLikelihood(out.ConversionScore)
	} else if label := stringField(doc, "conversionLikelihood", ""); label != "" {
		out.ConversionScore = fb.ConversionScore
		out.ConversionLikelihood = models.Likelihood(label)
	} else {
		out.ConversionScore = fb.ConversionScore
		out.ConversionLikelihood = fb.ConversionLikelihood
	}

	return out, true
}

// StripFences extracts the contents of a ```json code fence when one
// is present (case-insensitive tag, tolerant of a missing closing
// fence) and returns unfenced text unchanged. The tag is compared with
// EqualFold against the original text; lowering a copy would shift
// byte offsets for some runes.
func StripFences(text string) string {
	const tag = "json"
	for i := 0; ; {
		j := strings.Index(text[i:], "```")
		if j < 0 {
			return text
		}
		start := i + j + 3
		if len(text) >= start+len(tag) && strings.EqualFold(text[start:start+len(tag)], tag) {
			rest := text[start+len(tag):]
			if end := strings.Index(rest, "```"); end >= 0 {
				rest = rest[:end]
			}
			return strings.TrimSpace(rest)
		}
		i = start
	}
}

// DeriveSentiment maps a quality score onto the sentiment buckets.
func DeriveSentiment(qualityScore int) models.Sentiment {
	switch {
	case qualityScore >= 85:
		return models.SentimentPositive
	case qualityScore >= 75:
		return models.SentimentNeutral
	default:
		return models.SentimentNeedsImprovement
	}
}

// DeriveLikelihood maps a conversion score onto the likelihood buckets.
func DeriveLikelihood(conversionScore int) models.Likelihood {
	switch {
	case conversionScore >= 80:
		return models.LikelihoodVeryHigh
	case conversionScore >= 60:
		return models.LikelihoodHigh
	case conversionScore >= 40:
		return models.LikelihoodMedium
	default:
		return models.LikelihoodLow
	}
}

func parseObject(text string) map[string]any {
	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil
	}
	return doc
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func numField(doc map[string]any, key string) (float64, bool) {
	v, ok := doc[key]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func intField(doc map[string]any, key string, def int) int {
	if f, ok := numField(doc, key); ok {
		return int(f)
	}
	return def
}

func stringField(doc map[string]any, key string, def string) string {
	v, ok := doc[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func stringListField(doc map[string]any, key string, def []string) []string {
	v, ok := doc[key]
	if !ok || v == nil {
		return def
	}
	items, ok := v.([]any)
	if !ok {
		return def
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func skillsField(doc map[string]any, def models.Skills) models.Skills {
	v, ok := doc["skills"]
	if !ok || v == nil {
		return def
	}
	m, ok := v.(map[string]any)
	if !ok {
		return def
	}
	return models.Skills{
		Discovery:         clampScore(intField(m, "discovery", def.Discovery)),
		ObjectionHandling: clampScore(intField(m, "objectionHandling", def.ObjectionHandling)),
		Closing:           clampScore(intField(m, "closing", def.Closing)),
		Rapport:           clampScore(intField(m, "rapport", def.Rapport)),
	}
}

func timelineField(doc map[string]any, def []models.TimelineEntry) []models.TimelineEntry {
	v, ok := doc["timeline"]
	if !ok || v == nil {
		if v, ok = doc["callTimeline"]; !ok || v == nil {
			return def
		}
	}
	items, ok := v.([]any)
	if !ok {
		return def
	}
	out := make([]models.TimelineEntry, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry := models.TimelineEntry{
			Label:       stringField(m, "label", ""),
			Description: stringField(m, "description", ""),
			Type:        stringField(m, "type", ""),
			Moment:      stringField(m, "moment", ""),
		}
		if entry.Description == "" {
			entry.Description = stringField(m, "summary", "")
		}
		if entry.Label == "" && entry.Description == "" {
			continue
		}
		out = append(out, entry)
	}
	return out
}
