package completion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOpenAIComplete(t *testing.T) {
	var captured apiRequest
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		authHeader = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"The answer is 42."},"finish_reason":"stop"}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL)
	answer, err := client.Complete(context.Background(), Request{
		Model:     "gpt-4.1-mini",
		Parts:     []Part{{Text: "What is six times seven?"}},
		MaxTokens: 700,
	})

	assert.NoError(t, err)
	assert.Equal(t, "The answer is 42.", answer)
	assert.Equal(t, "Bearer sk-test", authHeader)
	assert.Equal(t, "gpt-4.1-mini", captured.Model)
	assert.Equal(t, 700, captured.MaxTokens)
	assert.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Len(t, captured.Messages[0].Content, 1)
	assert.Equal(t, "text", captured.Messages[0].Content[0].Type)
	assert.Equal(t, "What is six times seven?", captured.Messages[0].Content[0].Text)
}

func TestOpenAIComplete_ImagePart(t *testing.T) {
	var captured apiRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"choices":[{"message":{"content":"Solved."}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL)
	_, err := client.Complete(context.Background(), Request{
		Model: "gpt-4.1-mini",
		Parts: []Part{{Text: "Solve the question shown.", ImageData: []byte("fake-jpeg"), ImageMIME: "image/jpeg"}},
	})

	assert.NoError(t, err)
	assert.Len(t, captured.Messages[0].Content, 2)
	assert.Equal(t, "text", captured.Messages[0].Content[0].Type)
	assert.Equal(t, "image_url", captured.Messages[0].Content[1].Type)
	assert.True(t, strings.HasPrefix(captured.Messages[0].Content[1].ImageURL.URL, "data:image/jpeg;base64,"))
}

func TestOpenAIComplete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL)
	_, err := client.Complete(context.Background(), Request{
		Model: "gpt-4.1-mini",
		Parts: []Part{{Text: "hello"}},
	})

	assert.Error(t, err)
	apiErr, ok := err.(*APIError)
	if assert.True(t, ok, "expected *APIError, got %T", err) {
		assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		assert.Contains(t, apiErr.Message, "Rate limit reached")
	}
}

func TestOpenAIComplete_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL)
	_, err := client.Complete(context.Background(), Request{
		Model: "gpt-4.1-mini",
		Parts: []Part{{Text: "hello"}},
	})
	assert.Error(t, err)
}

func TestOpenAIComplete_NoContent(t *testing.T) {
	client := NewOpenAIClient("sk-test", "http://localhost:0")
	_, err := client.Complete(context.Background(), Request{Model: "gpt-4.1-mini"})
	assert.Error(t, err)
}

func TestOpenAIComplete_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server's background read can observe the
		// client disconnect and cancel r.Context(); otherwise Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, Request{
		Model: "gpt-4.1-mini",
		Parts: []Part{{Text: "hello"}},
	})
	assert.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
