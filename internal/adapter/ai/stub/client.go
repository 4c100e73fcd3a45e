// Package stub provides a fast, deterministic AI client for local
// development and tests. It inspects the system prompt to decide which
// response schema to emit.
package stub

import (
	"encoding/json"
	"strings"

	"github.com/hireflow/candidate-assessor/internal/domain"
)

// Client is a deterministic domain.AIClient.
type Client struct{}

// New constructs a stub client.
func New() *Client { return &Client{} }

// ChatJSON returns a compact JSON string matching the schema the system
// prompt asks for. Identical inputs yield identical outputs.
func (c *Client) ChatJSON(_ domain.Context, systemPrompt, _ string, _ int) (string, error) {
	if strings.Contains(systemPrompt, `"scores"`) {
		payload := map[string]any{
			"scores": map[string]any{
				"technical_skills":  map[string]any{"score": 78, "notes": "Concrete examples with relevant tooling."},
				"experience":        map[string]any{"score": 74, "notes": "Several years of applicable work history."},
				"problem_solving":   map[string]any{"score": 80, "notes": "Walked through a debugging scenario clearly."},
				"communication":     map[string]any{"score": 82, "notes": "Structured, concise answers."},
				"cultural_fit":      map[string]any{"score": 76, "notes": "Collaborative framing of past conflicts."},
				"overall_potential": map[string]any{"score": 79, "notes": "Good trajectory and learning mindset."},
			},
			"summary": "Consistent, well-structured answers across all interview phases.",
		}
		b, _ := json.Marshal(payload)
		return string(b), nil
	}

	b, _ := json.Marshal(map[string]string{
		"reply": "Thanks for sharing that. Could you walk me through the details?",
	})
	return string(b), nil
}
