package analysis

import "github.com/callsight/backend/internal/models"

// Fallback returns the canned analysis used when the model is
// unreachable or unconfigured. It also supplies the per-field defaults
// the normalizer substitutes for anything missing from a parsed
// response, so every value here must be safe to show on the dashboard.
func Fallback() models.Analysis {
	return models.Analysis{
		QualityScore:         75,
		Sentiment:            models.SentimentNeutral,
		AppointmentOutcome:   models.OutcomeFollowUp,
		ConversionScore:      60,
		ConversionLikelihood: models.LikelihoodHigh,
		ScriptAdherence:      0.75,
		Skills: models.Skills{
			Discovery:         70,
			ObjectionHandling: 65,
			Closing:           60,
			Rapport:           75,
		},
		CoachingSummary:           "Automated analysis was unavailable for this call. Default coaching guidance is shown; review the transcript manually.",
		ScriptAdherenceSummary:    "Script adherence could not be evaluated automatically.",
		AppointmentRecommendation: "Schedule a follow-up and confirm the next step with the customer.",
		Timeline: []models.TimelineEntry{
			{Label: "Opening", Description: "Call opening and introductions."},
			{Label: "Conversation", Description: "Customer needs and discussion."},
			{Label: "Close", Description: "Wrap-up and next steps."},
		},
		KeyObjections:      []string{"Not captured"},
		Strengths:          []string{"Completed the call"},
		Improvements:       []string{"Re-run the analysis when the AI service is available"},
		CoachingPlan:       []string{"Review the transcript with a team lead"},
		RecommendedPhrases: []string{"What would need to be true for this to work for you?"},
		PhrasesToAvoid:     []string{"To be honest"},
	}
}
