package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/logging"
)

func TestHTTPCaller_RequestShape(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotBody openai.ChatCompletionRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" hello there "}}]}`))
	}))
	defer srv.Close()

	caller := NewHTTPCaller(srv.Client(), 5*time.Second, logging.Nop())
	p := Provider{Name: "deepseek", APIKey: "sk-abc", BaseURL: srv.URL + "/", Model: "deepseek-chat"}

	text, err := caller.Complete(context.Background(), p, Request{
		System:      "be nice",
		User:        "hi",
		MaxTokens:   500,
		Temperature: 0.7,
	})
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-abc", gotAuth)
	assert.Equal(t, "deepseek-chat", gotBody.Model)
	assert.Equal(t, 500, gotBody.MaxTokens)
	assert.InDelta(t, 0.7, gotBody.Temperature, 0.0001)
	require.Len(t, gotBody.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, gotBody.Messages[0].Role)
	assert.Equal(t, "be nice", gotBody.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, gotBody.Messages[1].Role)
	assert.Equal(t, "hi", gotBody.Messages[1].Content)
}

func TestHTTPCaller_NonSuccessKeepsExcerpt(t *testing.T) {
	long := strings.Repeat("x", 2000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(long))
	}))
	defer srv.Close()

	caller := NewHTTPCaller(srv.Client(), 5*time.Second, logging.Nop())
	_, err := caller.Complete(context.Background(), testProvider(srv.URL), Request{})

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ClassServer, pe.Class)
	assert.Equal(t, http.StatusBadGateway, pe.StatusCode)
	assert.Equal(t, "test", pe.Provider)
	assert.Len(t, pe.Detail, detailExcerpt)
}

func TestHTTPCaller_UnreachableIsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	caller := NewHTTPCaller(nil, time.Second, logging.Nop())
	_, err := caller.Complete(context.Background(), testProvider(url), Request{})
	assert.Equal(t, ClassNetwork, Classify(err))
}

func TestHTTPCaller_MalformedTagsProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	caller := NewHTTPCaller(srv.Client(), 5*time.Second, logging.Nop())
	_, err := caller.Complete(context.Background(), testProvider(srv.URL), Request{})

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ClassMalformed, pe.Class)
	assert.Equal(t, "test", pe.Provider)
	assert.Equal(t, http.StatusOK, pe.StatusCode)
}

func TestTransports_Dispatch(t *testing.T) {
	openaiStub := &stubCaller{text: "from openai"}
	geminiStub := &stubCaller{text: "from gemini"}
	tr := Transports{KindOpenAI: openaiStub, KindGemini: geminiStub}

	out, err := tr.Complete(context.Background(), Provider{Name: "a"}, Request{})
	require.NoError(t, err)
	assert.Equal(t, "from openai", out)

	out, err = tr.Complete(context.Background(), Provider{Name: "b", Kind: KindGemini}, Request{})
	require.NoError(t, err)
	assert.Equal(t, "from gemini", out)

	_, err = Transports{}.Complete(context.Background(), Provider{Name: "c"}, Request{})
	assert.Equal(t, ClassMalformed, Classify(err))
	assert.True(t, IsPermanent(err))
}

func TestTransports_UnknownKindNotRetried(t *testing.T) {
	var waits []time.Duration
	exec := NewExecutor(Transports{KindOpenAI: &stubCaller{text: "x"}}, instantPolicy(&waits), logging.Nop())

	res, err := exec.Execute(context.Background(), Provider{Name: "odd", Kind: Kind("bedrock")}, Request{})
	require.Error(t, err)
	assert.Equal(t, 1, res.Attempts)
	assert.Empty(t, waits)
}
