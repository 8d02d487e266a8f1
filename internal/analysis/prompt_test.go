package analysis

import (
	"strings"
	"testing"
)

func TestBuildPromptEmbedsInputsVerbatim(t *testing.T) {
	transcript := "Agent: Hello!\nCustomer: Hi, I'm calling about the quote.\n" + strings.Repeat("Customer: And another thing. ", 200)
	p := BuildPrompt(PromptInput{
		AgentName:  "Dana",
		Notes:      "Repeat caller",
		Transcript: transcript,
		Script:     "1. Greet the customer.",
	})

	if !strings.Contains(p, transcript) {
		t.Fatal("transcript must be embedded verbatim, never truncated")
	}
	if !strings.Contains(p, "Dana") || !strings.Contains(p, "Repeat caller") {
		t.Fatal("agent name and notes must be embedded")
	}
	if !strings.Contains(p, "1. Greet the customer.") {
		t.Fatal("script rubric must be embedded")
	}
	if !strings.Contains(p, "ONLY the JSON object") {
		t.Fatal("prompt must instruct JSON-only output")
	}
	if !strings.Contains(p, "scriptAdherencePercent") {
		t.Fatal("prompt must spell out the response schema")
	}
}

func TestBuildPromptDefaultsMissingText(t *testing.T) {
	p := BuildPrompt(PromptInput{Transcript: "short call"})
	if !strings.Contains(p, "Agent: Unknown") {
		t.Fatal("missing agent name should default to Unknown")
	}
	if !strings.Contains(p, "No notes provided.") {
		t.Fatal("missing notes should get a placeholder")
	}
	if strings.Contains(p, "<<<SCRIPT>>>") {
		t.Fatal("script section should be omitted when no script is given")
	}
}

func TestBuildPromptPlaceholderTranscript(t *testing.T) {
	p := BuildPrompt(PromptInput{AgentName: "Lee"})
	if !strings.Contains(p, "No transcript provided.") {
		t.Fatal("missing transcript should get a placeholder")
	}
}
