package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMessageResponseText(t *testing.T) {
	resp := MessageResponse{Content: []ContentBlock{
		{Type: "text", Text: "Hello "},
		{Type: "tool_use", Text: "ignored"},
		{Type: "text", Text: "world"},
	}}
	require.Equal(t, "Hello world", resp.Text())

	require.Equal(t, "", MessageResponse{}.Text())
}

func TestCreateMessageSendsHeadersAndDefaults(t *testing.T) {
	var gotReq MessageRequest
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/messages", r.URL.Path)
		gotHeaders = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}],"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":2}}`))
	}))
	defer server.Close()

	client, err := NewClient("sk-test", server.URL, time.Millisecond)
	require.NoError(t, err)

	resp, err := client.CreateMessage(context.Background(), MessageRequest{
		Model:    "test-model",
		Messages: []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Text())
	require.Equal(t, 10, resp.Usage.InputTokens)

	require.Equal(t, "sk-test", gotHeaders.Get("x-api-key"))
	require.Equal(t, "2023-06-01", gotHeaders.Get("anthropic-version"))
	require.Equal(t, defaultMaxTokens, gotReq.MaxTokens)
}

func TestCreateMessageRetriesOn429(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "overloaded", http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"second try"}]}`))
	}))
	defer server.Close()

	client, err := NewClient("sk-test", server.URL, time.Millisecond)
	require.NoError(t, err)

	resp, err := client.CreateMessage(context.Background(), MessageRequest{Model: "m"})
	require.NoError(t, err)
	require.Equal(t, "second try", resp.Text())
	require.Equal(t, 2, attempts)
}

func TestCreateMessageDoesNotRetryClientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewClient("sk-test", server.URL, time.Millisecond)
	require.NoError(t, err)

	_, err = client.CreateMessage(context.Background(), MessageRequest{Model: "m"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=400")
	require.Equal(t, 1, attempts)
}

func TestCreateMessageGivesUpAfterRetry(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient("sk-test", server.URL, time.Millisecond)
	require.NoError(t, err)

	_, err = client.CreateMessage(context.Background(), MessageRequest{Model: "m"})
	require.Error(t, err)
	require.Equal(t, 2, attempts)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("", "", 0)
	require.Error(t, err)
}
