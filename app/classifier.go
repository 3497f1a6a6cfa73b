// Package app classifies prompt intent before rewriting.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/ashonting/promptiv/app/llm"
	"github.com/ashonting/promptiv/app/models"
)

var errNoJSONObject = errors.New("no JSON object in reply")

var llmClient llm.Client

// taskModelMap routes each task category to the model best suited for it.
var taskModelMap = map[string]string{
	"creative writing": "Claude 3 Opus",
	"business writing": "Claude 3 Opus",
	"essay":            "Claude 3 Opus",
	"long-form":        "Claude 3 Opus",
	"storytelling":     "Claude 3 Opus",
	"technical Q&A":    "GPT-4o",
	"coding":           "GPT-4o",
	"code generation":  "GPT-4o",
	"multimodal":       "GPT-4o",
	"brainstorming":    "GPT-4o",
	"summarization":    "Gemini 1.5",
	"research":         "Gemini 1.5",
	"analysis":         "Gemini 1.5",
	"quick/simple":     "Mixtral",
}

// chatURLs gives the quick-copy destination for each target model.
var chatURLs = map[string]string{
	"Claude 3 Opus": "https://claude.ai/chats",
	"GPT-4o":        "https://chat.openai.com/",
	"Gemini 1.5":    "https://gemini.google.com/app",
	"Mixtral":       "https://chat.mistral.ai/",
}

const defaultBestLLM = "GPT-4o"

const classifierInstruction = `You are a prompt intent classifier. ` +
	`Given a user prompt, classify its primary task type from the following options: ` +
	`'creative writing', 'business writing', 'essay', 'long-form', 'storytelling', 'technical Q&A', ` +
	`'coding', 'code generation', 'multimodal', 'brainstorming', 'summarization', 'research', 'analysis', ` +
	`'quick/simple'. ` +
	`Then recommend the best LLM for that task: 'Claude 3 Opus', 'GPT-4o', 'Gemini 1.5', or 'Mixtral'. ` +
	`Respond as JSON: ` +
	`{ "task_type": "creative writing", "best_llm": "Claude 3 Opus", "rationale": "Claude 3 Opus is best for creative writing and long-form output." }`

const (
	classifierTemperature = 0.3
	classifierMaxTokens   = 200
	classifierTimeout     = 20 * time.Second
)

// ClassifyPrompt infers the task category, target model and rationale for a
// prompt. It never fails: call or parse errors degrade to a general
// classification with the default model. The second return value is the token
// usage of the call, zero on failure.
func ClassifyPrompt(ctx context.Context, prompt string) (models.Classification, int) {
	result, err := llmClient.Chat(ctx, llm.ChatRequest{
		System:      classifierInstruction,
		User:        prompt,
		Temperature: classifierTemperature,
		MaxTokens:   classifierMaxTokens,
		Timeout:     classifierTimeout,
	})
	if err != nil {
		log.Printf("classifier call failed, falling back to general: %v", err)
		return fallbackClassification(err.Error()), 0
	}

	cls, err := parseClassification(result.Content)
	if err != nil {
		log.Printf("classifier reply unparseable, falling back to general: %v", err)
		return fallbackClassification(err.Error()), result.TotalTokens
	}
	return cls, result.TotalTokens
}

// parseClassification extracts the JSON object between the first '{' and the
// last '}' of the raw reply, tolerating prose or code fences around it.
func parseClassification(raw string) (models.Classification, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return models.Classification{}, errNoJSONObject
	}

	var cls models.Classification
	if err := json.Unmarshal([]byte(raw[start:end+1]), &cls); err != nil {
		return models.Classification{}, err
	}
	if cls.BestLLM == "" {
		cls.BestLLM = defaultBestLLM
	}
	if cls.TaskType == "" {
		cls.TaskType = "general"
	}
	return cls, nil
}

func fallbackClassification(reason string) models.Classification {
	return models.Classification{
		TaskType:  "general",
		BestLLM:   defaultBestLLM,
		Rationale: reason,
	}
}

// CandidateModels returns the sorted distinct set of target models the
// classifier can recommend.
func CandidateModels() []string {
	seen := make(map[string]bool)
	var out []string
	for _, model := range taskModelMap {
		if !seen[model] {
			seen[model] = true
			out = append(out, model)
		}
	}
	sort.Strings(out)
	return out
}
