// Package app generates styled rewrites of a prompt.
package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ashonting/promptiv/app/llm"
	"github.com/ashonting/promptiv/app/models"
)

const (
	variantMaxTokens = 400
	variantTimeout   = 30 * time.Second

	rewriteLabel   = "rewritten prompt:"
	rationaleLabel = "why this works:"

	degradedRewrite   = "[Error generating prompt.]"
	fallbackRationale = "This rewrite sharpens the original prompt for the recommended model."
)

func variantInstruction(style Style, bestLLM, rationale string) string {
	return fmt.Sprintf(`You are an expert AI prompt engineer. Rewrite the user's prompt for maximum effectiveness.

- Do NOT merely rephrase; significantly transform the prompt for clarity, context, and AI effectiveness.
- The rewrite MUST be explicitly optimized for the following LLM: %s. (%s)
- State the task in the user's perspective (use "I" or "my", not "you" or "your").
- The prompt should be ready to paste into %s.
- %s

Reply with exactly two labeled sections and nothing else:
Rewritten prompt:
<the rewritten prompt>
Why this works:
<one sentence referencing the model's strengths and the rewrite's improvements>`,
		bestLLM, rationale, bestLLM, style.Instruction)
}

// GenerateVariant produces one styled rewrite. Call failures degrade to a
// placeholder rewrite with the error as rationale; a malformed reply degrades
// to using the whole reply body. It never returns an error so one style's
// failure cannot block the others.
func GenerateVariant(ctx context.Context, prompt string, style Style, bestLLM, rationale string) models.Variant {
	v := models.Variant{
		VariantStyle: style.Name,
		BestLLM:      bestLLM,
		QuickCopyURL: chatURLs[bestLLM],
		BestFor:      style.BestFor,
		Clarity:      style.Clarity,
		Complexity:   style.Complexity,
	}

	result, err := llmClient.Chat(ctx, llm.ChatRequest{
		System:      variantInstruction(style, bestLLM, rationale),
		User:        prompt,
		Temperature: style.Temperature,
		MaxTokens:   variantMaxTokens,
		Timeout:     variantTimeout,
	})
	if err != nil {
		log.Printf("variant call failed style=%s err=%v", style.Name, err)
		v.Prompt = degradedRewrite
		v.WhyThisWorks = err.Error()
		return v
	}

	v.Prompt, v.WhyThisWorks = parseVariantReply(result.Content)
	v.TotalTokens = result.TotalTokens
	return v
}

// parseVariantReply locates the two labeled sections case-insensitively.
// A missing rewrite label means the whole body is the rewrite; a missing
// rationale label substitutes a generic sentence. The rewrite is never empty
// for a non-empty reply.
func parseVariantReply(raw string) (rewrite, rationale string) {
	lower := strings.ToLower(raw)

	rewriteAt := strings.Index(lower, rewriteLabel)
	rationaleAt := strings.Index(lower, rationaleLabel)

	switch {
	case rewriteAt == -1:
		rewrite = strings.TrimSpace(raw)
	case rationaleAt > rewriteAt:
		rewrite = strings.TrimSpace(raw[rewriteAt+len(rewriteLabel) : rationaleAt])
	default:
		rewrite = strings.TrimSpace(raw[rewriteAt+len(rewriteLabel):])
	}
	if rewrite == "" {
		rewrite = strings.TrimSpace(raw)
	}

	if rationaleAt != -1 {
		rationale = strings.TrimSpace(raw[rationaleAt+len(rationaleLabel):])
	}
	if rationale == "" {
		rationale = fallbackRationale
	}
	return rewrite, rationale
}
