package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ashonting/promptiv/app/llm"
)

const (
	classifierReply = `{"task_type":"coding","best_llm":"GPT-4o","rationale":"GPT-4o is best for code."}`
	variantReply    = "Rewritten prompt:\nI want a reviewed, idiomatic implementation of my function.\nWhy this works:\nGPT-4o excels at code tasks and the rewrite adds explicit constraints."
)

// setupTest swaps the global store and LLM client for in-memory fakes and
// pins the env flags the pipeline reads.
func setupTest(t *testing.T) (*memStore, *llm.MockClient) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ms := newMemStore()
	mock := llm.NewMockClient()
	mock.ResponseFor = map[string]string{
		"intent classifier": classifierReply,
		"prompt engineer":   variantReply,
	}

	origStore, origLLM := store, llmClient
	store, llmClient = ms, mock
	t.Cleanup(func() { store, llmClient = origStore, origLLM })

	t.Setenv("USE_DUMMY_USER", "false")
	t.Setenv("REWRITE_GATE_ENABLED", "true")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("POSTGRES_URL", "")

	return ms, mock
}

// newTestRouter wires the handlers without an identity provider: requests
// authenticate via device hash only, as anonymous callers do in production.
func newTestRouter() *gin.Engine {
	router := gin.New()
	router.GET("/api/health", Health)
	router.GET("/api/llm_count", LLMCount)
	router.POST("/api/contact", Contact)
	router.POST("/api/rewrite", RewritePrompt)
	router.POST("/api/user", GetOrCreateUser)
	router.POST("/api/user/device", GetOrCreateUser)
	router.POST("/api/paddle/webhook", PaddleWebhook)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeBody(t *testing.T, resp *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response body %q: %v", resp.Body.String(), err)
	}
}
