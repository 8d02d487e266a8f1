package models

import "time"

// Sentiment, Outcome and Likelihood are open string enums: the known
// values below are what the prompt asks the model for, but values
// outside the set are stored as-is rather than rejected.
type Sentiment string

const (
	SentimentPositive         Sentiment = "Positive"
	SentimentNeutral          Sentiment = "Neutral"
	SentimentNeedsImprovement Sentiment = "Needs Improvement"
)

type Outcome string

const (
	OutcomeBooked     Outcome = "Booked"
	OutcomeFollowUp   Outcome = "FollowUp"
	OutcomeNoNextStep Outcome = "NoNextStep"
)

type Likelihood string

const (
	LikelihoodVeryHigh Likelihood = "Very high"
	LikelihoodHigh     Likelihood = "High"
	LikelihoodMedium   Likelihood = "Medium"
	LikelihoodLow      Likelihood = "Low"
)

// NoFile is the filename sentinel for analyses without an audio upload.
const NoFile = "No file"

type Skills struct {
	Discovery         int `json:"discovery"`
	ObjectionHandling int `json:"objectionHandling"`
	Closing           int `json:"closing"`
	Rapport           int `json:"rapport"`
}

type TimelineEntry struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Type        string `json:"type,omitempty"`
	Moment      string `json:"moment,omitempty"`
}

// Analysis is the normalized result of one AI evaluation. Every field
// is always populated; the normalizer substitutes fallback values for
// anything the model omitted or mistyped.
type Analysis struct {
	QualityScore              int             `json:"qualityScore"`
	Sentiment                 Sentiment       `json:"sentiment"`
	AppointmentOutcome        Outcome         `json:"appointmentOutcome"`
	ConversionScore           int             `json:"conversionScore"`
	ConversionLikelihood      Likelihood      `json:"conversionLikelihood"`
	ScriptAdherence           float64         `json:"scriptAdherence"`
	Skills                    Skills          `json:"skills"`
	CoachingSummary           string          `json:"coachingSummary"`
	ScriptAdherenceSummary    string          `json:"scriptAdherenceSummary"`
	AppointmentRecommendation string          `json:"appointmentRecommendation"`
	Timeline                  []TimelineEntry `json:"timeline"`
	KeyObjections             []string        `json:"keyObjections"`
	Strengths                 []string        `json:"strengths"`
	Improvements              []string        `json:"improvements"`
	CoachingPlan              []string        `json:"coachingPlan"`
	RecommendedPhrases        []string        `json:"recommendedPhrases"`
	PhrasesToAvoid            []string        `json:"phrasesToAvoid"`
	Raw                       string          `json:"raw,omitempty"`
}

// CallRecord is created once per analyze/upload request and never
// mutated afterwards.
type CallRecord struct {
	ID         string    `json:"id"`
	AgentName  string    `json:"agentName"`
	Notes      string    `json:"notes"`
	Transcript string    `json:"transcript"`
	Filename   string    `json:"filename"`
	CreatedAt  time.Time `json:"createdAt"`
	Analysis
}

// Script is the rubric the AI compares transcripts against. At most
// one script is active at a time; the store enforces that.
type Script struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Active  bool   `json:"active"`
}

// ScriptPatch carries the updatable script fields; nil means "leave
// unchanged".
type ScriptPatch struct {
	Name    *string `json:"name"`
	Content *string `json:"content"`
	Active  *bool   `json:"active"`
}
