package analysis

import (
	"fmt"
	"strings"
)

// PromptInput carries everything the evaluator prompt embeds. Missing
// text is defaulted to an explanatory placeholder; the transcript is
// never truncated here, the HTTP body-size limit owns that concern.
type PromptInput struct {
	AgentName  string
	Notes      string
	Transcript string
	Script     string
}

const promptSchema = `{
  "qualityScore": <integer 0-100, overall call quality>,
  "sentiment": <"Positive" | "Neutral" | "Needs Improvement">,
  "appointmentOutcome": <"Booked" | "FollowUp" | "NoNextStep">,
  "conversionScore": <integer 0-100, likelihood the lead converts>,
  "scriptAdherencePercent": <integer 0-100, how closely the agent followed the script>,
  "skills": {
    "discovery": <integer 0-100>,
    "objectionHandling": <integer 0-100>,
    "closing": <integer 0-100>,
    "rapport": <integer 0-100>
  },
  "coachingSummary": <string, 2-3 sentences of coaching feedback>,
  "scriptAdherenceSummary": <string, where the agent followed or deviated from the script>,
  "appointmentRecommendation": <string, concrete advice on securing the next step>,
  "timeline": [{"label": <string>, "description": <string>, "type": <string>, "moment": <string>}],
  "keyObjections": [<string>],
  "strengths": [<string>],
  "improvements": [<string>],
  "coachingPlan": [<string>],
  "recommendedPhrases": [<string>],
  "phrasesToAvoid": [<string>]
}`

// BuildPrompt renders the evaluator instruction for one call.
func BuildPrompt(in PromptInput) string {
	agent := strings.TrimSpace(in.AgentName)
	if agent == "" {
		agent = "Unknown"
	}
	notes := strings.TrimSpace(in.Notes)
	if notes == "" {
		notes = "No notes provided."
	}
	transcript := in.Transcript
	if strings.TrimSpace(transcript) == "" {
		transcript = "No transcript provided."
	}

	var b strings.Builder
	b.WriteString("You are a senior sales coach reviewing a recorded sales call for a home-services company.\n")
	b.WriteString("Evaluate the agent's performance and how closely the call followed the company call script.\n\n")
	fmt.Fprintf(&b, "Agent: %s\n", agent)
	fmt.Fprintf(&b, "Agent notes: %s\n\n", notes)

	if script := strings.TrimSpace(in.Script); script != "" {
		b.WriteString("Company call script (the rubric to compare against):\n")
		b.WriteString("<<<SCRIPT>>>\n")
		b.WriteString(script)
		b.WriteString("\n<<<END SCRIPT>>>\n\n")
	}

	b.WriteString("Call transcript:\n")
	b.WriteString("<<<TRANSCRIPT>>>\n")
	b.WriteString(transcript)
	b.WriteString("\n<<<END TRANSCRIPT>>>\n\n")

	b.WriteString("Respond with a single JSON object matching this schema exactly:\n")
	b.WriteString(promptSchema)
	b.WriteString("\n\nReturn ONLY the JSON object. No prose, no markdown fences, no commentary.")
	return b.String()
}
