package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hireflow/candidate-assessor/internal/adapter/ai/openai"
	"github.com/hireflow/candidate-assessor/internal/config"
	"github.com/hireflow/candidate-assessor/internal/domain"
)

func testConfig(baseURL string) config.Config {
	return config.Config{
		AppEnv:        "test",
		OpenAIAPIKey:  "sk-test",
		OpenAIBaseURL: baseURL,
		ChatModel:     "gpt-4o-mini",
	}
}

func completionBody(content string) []byte {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return b
}

func TestChatJSON_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req["model"])

		_, _ = w.Write(completionBody(`{"reply":"hello"}`))
	}))
	defer srv.Close()

	c := openai.New(testConfig(srv.URL))
	got, err := c.ChatJSON(context.Background(), "system", "user", 256)
	require.NoError(t, err)
	assert.Equal(t, `{"reply":"hello"}`, got)
}

func TestChatJSON_MissingKey(t *testing.T) {
	t.Parallel()
	c := openai.New(config.Config{AppEnv: "test", OpenAIBaseURL: "http://unused"})
	_, err := c.ChatJSON(context.Background(), "s", "u", 10)
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestChatJSON_4xxDoesNotRetry(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := openai.New(testConfig(srv.URL))
	_, err := c.ChatJSON(context.Background(), "s", "u", 10)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestChatJSON_RetriesOn429(t *testing.T) {
	t.Parallel()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write(completionBody(`{"ok":true}`))
	}))
	defer srv.Close()

	c := openai.New(testConfig(srv.URL))
	got, err := c.ChatJSON(context.Background(), "s", "u", 10)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, got)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestChatJSON_NoChoices(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := openai.New(testConfig(srv.URL))
	_, err := c.ChatJSON(context.Background(), "s", "u", 10)
	require.ErrorIs(t, err, domain.ErrSchemaInvalid)
}
