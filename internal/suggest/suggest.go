// Package suggest asks a generative text API for campaign copy ideas.
// The service is best-effort by contract: every failure mode (missing
// key, network, non-2xx, unparsable payload) degrades to an empty
// suggestion list and never blocks the caller.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appLog "omniplan/internal/log"
)

// Suggestion is one generated title/description pair.
type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Client calls a Gemini-style generateContent endpoint.
type Client struct {
	baseURL string
	model   string
	apiKey  string
	client  *http.Client
}

// NewClient builds a suggestion client. An empty apiKey is allowed and
// simply makes every Suggest call return no suggestions.
func NewClient(baseURL, model, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// request/response shapes for the generateContent API. Only the fields
// this client reads or writes are modeled.

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// responseSchema constrains the model to a pure JSON array of
// {title, description} objects.
var responseSchema = json.RawMessage(`{
  "type": "ARRAY",
  "items": {
    "type": "OBJECT",
    "properties": {
      "title": {"type": "STRING", "description": "Un título corto y pegadizo (máx 5 palabras)"},
      "description": {"type": "STRING", "description": "Descripción breve de la acción"}
    },
    "required": ["title", "description"]
  }
}`)

// Suggest generates campaign ideas for a brand in a given month and
// communication type. It returns a zero-length slice on any failure.
func (c *Client) Suggest(ctx context.Context, brandName, industry, monthLabel, typeLabel string) []Suggestion {
	if c.apiKey == "" {
		appLog.Debug("suggest: no API key configured, skipping")
		return nil
	}

	prompt := fmt.Sprintf(`Genera 3 ideas de campañas de marketing creativas para la marca "%s" (%s).
Contexto:
- Mes: %s
- Tipo de comunicación: "%s"

Devuelve solo un array JSON puro.`, brandName, industry, monthLabel, typeLabel)

	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	})
	if err != nil {
		appLog.Error("suggest: request marshal failed", err)
		return nil
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		appLog.Error("suggest: request build failed", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		appLog.Error("suggest: request failed", err, "model", c.model)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		appLog.Error("suggest: non-OK response", fmt.Errorf("status %s", resp.Status), "model", c.model)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		appLog.Error("suggest: response read failed", err)
		return nil
	}

	var gr generateResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		appLog.Error("suggest: response parse failed", err)
		return nil
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		appLog.Debug("suggest: empty candidate list", "model", c.model)
		return nil
	}

	ideas, err := parseIdeas(gr.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		appLog.Error("suggest: idea parse failed", err)
		return nil
	}

	appLog.Info("suggest: ideas generated", "brand", brandName, "count", len(ideas))
	return ideas
}

// parseIdeas decodes the model's JSON output, tolerating a markdown
// code fence around the array.
func parseIdeas(text string) ([]Suggestion, error) {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.TrimSpace(clean)

	var ideas []Suggestion
	if err := json.Unmarshal([]byte(clean), &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}
