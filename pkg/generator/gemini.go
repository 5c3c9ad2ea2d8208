// Package generator calls the Gemini generateContent API to produce a
// career roadmap document. The response is treated as an opaque document:
// it is parsed only far enough to confirm it is JSON, then handed to the
// client verbatim.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("generator not configured")
	// ErrBadDocument is returned when the model reply is not parseable JSON.
	ErrBadDocument = errors.New("generator returned an unparseable document")
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type Client struct {
	APIKey  string
	Model   string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: defaultBaseURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Configured() bool { return c != nil && c.APIKey != "" }

func prompt(role string) string {
	return fmt.Sprintf(`Generate a comprehensive career roadmap for a %[1]s.

Return the response in the following JSON format:
{
  "title": "%[1]s Roadmap",
  "stages": [
    {
      "id": 1,
      "name": "Stage Name",
      "duration": "Timeframe",
      "description": "Detailed description",
      "skills": ["skill1", "skill2", "skill3"],
      "resources": ["resource1", "resource2"]
    }
  ]
}

Include 6-8 progressive stages covering beginner to advanced levels. Each stage should have a clear name, realistic duration, detailed description, key skills to learn, and recommended resources. Make it specific to %[1]s.`, role)
}

type generateRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateRoadmap asks the model for a roadmap for the named role and
// returns the raw JSON document. One bounded call, no retries; a timeout
// is the caller's to handle.
func (c *Client) GenerateRoadmap(ctx context.Context, role string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	var req generateRequest
	req.Contents = make([]struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	}, 1)
	req.Contents[0].Parts = []struct {
		Text string `json:"text"`
	}{{Text: prompt(role)}}
	req.GenerationConfig.Temperature = 0.7
	req.GenerationConfig.MaxOutputTokens = 2048

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation request failed with status %d", res.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, ErrBadDocument
	}

	doc := stripFences(parsed.Candidates[0].Content.Parts[0].Text)
	if !json.Valid([]byte(doc)) {
		return nil, ErrBadDocument
	}
	return json.RawMessage(doc), nil
}

// stripFences removes the markdown code fences models like to wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
