// Package advisory asks a language model which anatomical structures a
// measured fracture puts at risk. The advice is informational output
// attached to the analysis result, never an input to the geometry
// pipeline.
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/medvis/fracturevis/pkg/fracture"
)

// Report is the structured advisory answer.
type Report struct {
	Structures  []string `json:"most_likely_damaged_structures"`
	Explanation string   `json:"explanation"`
}

// Advisor produces a risk report for a set of fracture measurements.
// Implementations return (nil, nil) when advice is unavailable rather
// than failing the request.
type Advisor interface {
	Analyze(ctx context.Context, measurements []fracture.Measurement) (*Report, error)
}

// Disabled is the no-op advisor used when no API key is configured.
type Disabled struct{}

func (Disabled) Analyze(ctx context.Context, measurements []fracture.Measurement) (*Report, error) {
	return nil, nil
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	url    string
	apiKey string
	model  string
	client *http.Client
}

func NewClient(url, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Analyze(ctx context.Context, measurements []fracture.Measurement) (*Report, error) {
	if len(measurements) == 0 {
		return nil, nil
	}

	prompt, err := buildPrompt(measurements)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("advisory failed with status: %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("advisory returned no choices")
	}

	raw, err := extractJSON(chat.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	var report Report
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, fmt.Errorf("parse advisory report: %w", err)
	}
	return &report, nil
}

// anatomyContext summarizes the forearm neurovascular anatomy the model
// should reason over.
const anatomyContext = `FOREARM ANATOMY REFERENCE:

RADIUS (Lateral bone):
- Radial artery: runs along the lateral/thumb side of the forearm
- Superficial radial nerve: provides sensation to the back of the hand
- At risk in: distal and middle third fractures

ULNA (Medial bone):
- Ulnar artery: runs along the medial/pinky side
- Ulnar nerve: passes behind the medial epicondyle, controls hand muscles
- Median nerve: can be affected in severe displaced fractures
- At risk in: proximal and middle third fractures

FRACTURE LOCATION RISK:
- Proximal (0.0-0.3): nerve damage more common
- Middle (0.3-0.7): both vessel and nerve risk
- Distal (0.7-1.0): vessel damage more common

ANGULATION SEVERITY:
- Mild (<8 degrees): low risk of vascular or nerve damage
- Moderate (8-15 degrees): moderate risk, close monitoring needed
- Severe (>15 degrees): high risk of neurovascular compromise`

func buildPrompt(measurements []fracture.Measurement) (string, error) {
	data, err := json.MarshalIndent(measurements, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode measurements: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a medical reasoning assistant analyzing forearm fractures.\n\n")
	b.WriteString("### Context:\n")
	b.WriteString(anatomyContext)
	b.WriteString("\n\n### Input Data (JSON):\n")
	b.Write(data)
	b.WriteString("\n\n### Task:\n")
	b.WriteString("Based on the fracture location, bone involved, and angulation:\n\n")
	b.WriteString("1. Identify ONLY the blood vessel(s) or nerve(s) that are MOST likely to be damaged.\n")
	b.WriteString("2. Ignore structures with low or moderate risk.\n")
	b.WriteString("3. Focus only on the highest-risk structure(s).\n\n")
	b.WriteString("### Output Format:\n")
	b.WriteString("Return ONLY a valid JSON object in this exact format:\n\n")
	b.WriteString("{\n  \"most_likely_damaged_structures\": [\n    \"name_1\",\n    \"name_2\"\n  ],\n")
	b.WriteString("  \"explanation\": \"One clear medical paragraph explaining why these structures are most at risk based on anatomy and fracture pattern.\"\n}\n\n")
	b.WriteString("### Rules:\n")
	b.WriteString("1. Include only high-risk structures (artery, vein, or nerve).\n")
	b.WriteString("2. Use standard anatomical names (e.g., radial artery, median nerve).\n")
	b.WriteString("3. \"explanation\" must be ONE paragraph (3-5 sentences).\n")
	b.WriteString("4. Output MUST be strict JSON.\n")
	b.WriteString("5. No markdown. No extra text.\n")
	b.WriteString("6. Use double quotes only.\n")
	return b.String(), nil
}

// extractJSON pulls the outermost JSON object out of a model response
// that may carry prose or code fences around it.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object in advisory output")
	}
	return text[start : end+1], nil
}
