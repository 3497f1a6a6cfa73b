package models

// PromptRequest is the body of POST /api/rewrite. DeviceHash carries the
// anonymous quota flow when no bearer token is present.
type PromptRequest struct {
	Prompt     string `json:"prompt"`
	DeviceHash string `json:"device_hash,omitempty"`
}

// Classification is the inferred intent of a prompt: its task category, the
// model best suited to run it, and a one-sentence rationale.
type Classification struct {
	TaskType  string `json:"task_type"`
	BestLLM   string `json:"best_llm"`
	Rationale string `json:"rationale"`
}

// Variant is one styled rewrite of the input prompt.
type Variant struct {
	VariantStyle string `json:"variant_style"`
	Prompt       string `json:"prompt"`
	BestLLM      string `json:"best_llm"`
	QuickCopyURL string `json:"quick_copy_url"`
	WhyThisWorks string `json:"why_this_works"`
	BestFor      string `json:"best_for"`
	Clarity      int    `json:"clarity"`
	Complexity   int    `json:"complexity"`

	// TotalTokens is the usage reported by the generating call, zero when
	// the call degraded. Not part of the response body.
	TotalTokens int `json:"-"`
}

// PromptResponse is the body of a successful rewrite: exactly three variants
// in fixed style order.
type PromptResponse struct {
	Input    string    `json:"input"`
	Model    string    `json:"model"`
	Variants []Variant `json:"variants"`
}
