package app

import (
	"context"
	"strings"
	"testing"

	"github.com/ashonting/promptiv/app/llm"
)

func TestParseClassification(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		taskType string
		bestLLM  string
	}{
		{
			name:     "clean json",
			raw:      `{"task_type":"coding","best_llm":"GPT-4o","rationale":"code"}`,
			taskType: "coding",
			bestLLM:  "GPT-4o",
		},
		{
			name:     "json wrapped in prose",
			raw:      "Sure! Here you go:\n```json\n{\"task_type\":\"research\",\"best_llm\":\"Gemini 1.5\",\"rationale\":\"web context\"}\n```",
			taskType: "research",
			bestLLM:  "Gemini 1.5",
		},
		{
			name:     "missing fields default",
			raw:      `{"rationale":"shrug"}`,
			taskType: "general",
			bestLLM:  "GPT-4o",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cls, err := parseClassification(tc.raw)
			if err != nil {
				t.Fatalf("parseClassification error = %v", err)
			}
			if cls.TaskType != tc.taskType || cls.BestLLM != tc.bestLLM {
				t.Fatalf("parseClassification = %+v, want task=%q llm=%q", cls, tc.taskType, tc.bestLLM)
			}
		})
	}
}

func TestParseClassificationNoJSON(t *testing.T) {
	if _, err := parseClassification("I cannot classify this."); err == nil {
		t.Fatal("expected error for reply without JSON object")
	}
}

func TestClassifyPromptFallsBackOnCallFailure(t *testing.T) {
	setupTest(t)
	failing := llm.NewMockClient()
	failing.ShouldFail = true
	orig := llmClient
	llmClient = failing
	t.Cleanup(func() { llmClient = orig })

	cls, tokens := ClassifyPrompt(context.Background(), "anything")
	if cls.TaskType != "general" || cls.BestLLM != defaultBestLLM {
		t.Fatalf("expected general fallback, got %+v", cls)
	}
	if cls.Rationale == "" {
		t.Fatal("fallback rationale should describe the failure")
	}
	if tokens != 0 {
		t.Fatalf("failed call should report zero tokens, got %d", tokens)
	}
}

func TestCandidateModels(t *testing.T) {
	got := CandidateModels()
	want := []string{"Claude 3 Opus", "GPT-4o", "Gemini 1.5", "Mixtral"}
	if len(got) != len(want) {
		t.Fatalf("CandidateModels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("CandidateModels[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("CandidateModels order mismatch: %v", got)
	}
}
