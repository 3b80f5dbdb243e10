package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	server   *httptest.Server
	requests atomic.Int32
	lastBody map[string]any
}

func newFakeProvider(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *fakeProvider {
	t.Helper()
	fp := &fakeProvider{}
	fp.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fp.requests.Add(1)
		if r.URL.Path == "/v1/chat/completions" {
			_ = json.NewDecoder(r.Body).Decode(&fp.lastBody)
		}
		handler(w, r)
	}))
	t.Cleanup(fp.server.Close)
	return fp
}

func (fp *fakeProvider) provider(t *testing.T, timeout time.Duration) *OpenAIProvider {
	t.Helper()
	cfg := DefaultConfig()
	cfg.APIKey = "sk-test"
	cfg.BaseURL = fp.server.URL + "/v1"
	cfg.Timeout = timeout
	p, err := NewOpenAIProvider(cfg)
	require.NoError(t, err)
	return p
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "cmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
}

func writeProviderError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message, "type": "test_error"},
	})
}

var conversation = []Turn{
	{Role: RoleSystem, Content: "be brief"},
	{Role: RoleUser, Content: "Hi"},
}

func TestComplete_ReturnsAssistantText(t *testing.T) {
	fp := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "Hello!")
	})

	reply, err := fp.provider(t, time.Second).Complete(context.Background(), conversation)
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply)
	assert.EqualValues(t, 1, fp.requests.Load())

	messages, ok := fp.lastBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "Hi", messages[1].(map[string]any)["content"])
	assert.Equal(t, "gpt-4o-mini", fp.lastBody["model"])
}

func TestComplete_EmptyPayloadUsesFallback(t *testing.T) {
	fp := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "")
	})

	reply, err := fp.provider(t, time.Second).Complete(context.Background(), conversation)
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
}

func TestComplete_ErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantType ErrorType
	}{
		{"rate limited", http.StatusTooManyRequests, ErrTypeRateLimit},
		{"bad credentials", http.StatusUnauthorized, ErrTypeAuth},
		{"server error", http.StatusInternalServerError, ErrTypeProvider},
		{"bad request", http.StatusBadRequest, ErrTypeProvider},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fp := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
				writeProviderError(w, tc.status, "upstream says no")
			})

			_, err := fp.provider(t, time.Second).Complete(context.Background(), conversation)
			require.Error(t, err)
			assert.Equal(t, tc.wantType, TypeOf(err))
			assert.EqualValues(t, 1, fp.requests.Load(), "gateway must not retry")

			var aiErr *AIError
			require.ErrorAs(t, err, &aiErr)
			assert.Equal(t, tc.status, aiErr.Code)
			assert.Equal(t, "upstream says no", aiErr.Message)
		})
	}
}

func TestComplete_TimeoutIsProviderError(t *testing.T) {
	fp := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	_, err := fp.provider(t, 50*time.Millisecond).Complete(context.Background(), conversation)
	require.Error(t, err)
	assert.Equal(t, ErrTypeProvider, TypeOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestComplete_RejectsEmptyConversation(t *testing.T) {
	fp := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w, "unused")
	})

	_, err := fp.provider(t, time.Second).Complete(context.Background(), nil)
	assert.Equal(t, ErrTypeProvider, TypeOf(err))
	assert.EqualValues(t, 0, fp.requests.Load())
}

func TestNewOpenAIProvider_ValidatesConfig(t *testing.T) {
	_, err := NewOpenAIProvider(&Config{Timeout: time.Second})
	assert.Equal(t, ErrTypeConfig, TypeOf(err))

	_, err = NewOpenAIProvider(&Config{Model: "m"})
	assert.Equal(t, ErrTypeConfig, TypeOf(err))
}
