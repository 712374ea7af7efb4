package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"portfolio-backend/internal/llm"
)

func TestRenderPing_Failure(t *testing.T) {
	out := renderPing(pingReport{
		Provider: llm.Provider{Name: "xai", Kind: llm.KindOpenAI, Model: "grok-3-mini"},
		Attempts: 3,
		Latency:  1500 * time.Millisecond,
		Err:      &llm.ProviderError{Provider: "xai", Class: llm.ClassRateLimited, StatusCode: 429},
	})

	assert.Contains(t, out, "xai")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "rate_limited")
	assert.Contains(t, out, llm.CategoryRateLimit.Message())
}

func TestRenderPing_Success(t *testing.T) {
	out := renderPing(pingReport{
		Provider: llm.Provider{Name: "deepseek", Kind: llm.KindOpenAI, Model: "deepseek-chat"},
		Attempts: 1,
		Reply:    "Hello there.",
	})
	assert.Contains(t, out, "OK")
	assert.Contains(t, out, "Hello there.")
}

func TestRenderProvider_NeverPrintsKey(t *testing.T) {
	out := renderProvider(llm.Provider{Name: "p", Kind: llm.KindOpenAI, APIKey: "sk-very-secret", Model: "m"})
	assert.NotContains(t, out, "sk-very-secret")
	assert.Contains(t, out, "14 chars")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 2))
	long := strings.Repeat("é", 10)
	assert.Equal(t, strings.Repeat("é", 3)+"…", truncate(long, 3))
}
