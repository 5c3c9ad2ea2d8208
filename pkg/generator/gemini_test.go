package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{"title":"Backend Developer Roadmap","stages":[{"id":1,"name":"Foundations","duration":"2-3 months","description":"Basics","skills":["Go"],"resources":["tour"]}]}`

func modelServer(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Contains(t, req, "contents")
		require.Contains(t, req, "generationConfig")

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": reply}},
				},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(baseURL string) *Client {
	c := NewClient("test-key", "gemini-2.0-flash", 5*time.Second)
	c.BaseURL = baseURL
	return c
}

func TestGenerateRoadmap(t *testing.T) {
	srv := modelServer(t, sampleDoc, http.StatusOK)
	defer srv.Close()

	doc, err := newTestClient(srv.URL).GenerateRoadmap(context.Background(), "Backend Developer")
	require.NoError(t, err)
	assert.JSONEq(t, sampleDoc, string(doc))
}

func TestGenerateRoadmapStripsFences(t *testing.T) {
	srv := modelServer(t, "```json\n"+sampleDoc+"\n```", http.StatusOK)
	defer srv.Close()

	doc, err := newTestClient(srv.URL).GenerateRoadmap(context.Background(), "Backend Developer")
	require.NoError(t, err)
	assert.JSONEq(t, sampleDoc, string(doc))
}

func TestGenerateRoadmapUpstreamError(t *testing.T) {
	srv := modelServer(t, "", http.StatusTooManyRequests)
	defer srv.Close()

	_, err := newTestClient(srv.URL).GenerateRoadmap(context.Background(), "Backend Developer")
	assert.Error(t, err)
}

func TestGenerateRoadmapBadDocument(t *testing.T) {
	srv := modelServer(t, "sorry, I can only reply in prose", http.StatusOK)
	defer srv.Close()

	_, err := newTestClient(srv.URL).GenerateRoadmap(context.Background(), "Backend Developer")
	assert.ErrorIs(t, err, ErrBadDocument)
}

func TestGenerateRoadmapUnconfigured(t *testing.T) {
	c := NewClient("", "gemini-2.0-flash", time.Second)
	_, err := c.GenerateRoadmap(context.Background(), "Backend Developer")
	assert.ErrorIs(t, err, ErrNotConfigured)

	var nilClient *Client
	assert.False(t, nilClient.Configured())
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, stripFences("  {\"a\":1}\n"))
}
