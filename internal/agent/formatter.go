package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"venti-agent/internal/domain"
	"venti-agent/internal/llm"
)

const formatterSystemPrompt = `You are a response formatting agent for an event discovery assistant.

You receive the assistant's raw reply plus the structured event options that will be shown to the user as cards.

CRITICAL - RESPONSE FORMAT:
You MUST respond with valid JSON in this EXACT format. Do NOT include markdown code blocks. Return ONLY the raw JSON:

{
  "text": "the rewritten conversational message"
}

IMPORTANT JSON RULES:
- The value must be a plain string, no arrays or nested objects
- Do not wrap the response in markdown code blocks
- Use \n for line breaks and escape quotes properly

Your task:
1. Keep the assistant's tone and language (usually Spanish)
2. REMOVE any enumerated event listing from the text: numbered lists of events, bold event titles, match percentages. The structured cards already show them
3. Keep greetings, explanations and calls to action
4. Never invent events or percentages`

// Formatter is the low-temperature second pass that rewrites the raw text
// to the output contract. It is best-effort: callers fall back to the raw
// text on any failure.
type Formatter struct {
	client llm.Client
}

func NewFormatter(client llm.Client) *Formatter {
	return &Formatter{client: client}
}

// Format returns the rewritten text. The structured options are provided
// for context only and are never altered by this pass.
func (f *Formatter) Format(ctx context.Context, rawText string, options []domain.Option) (string, error) {
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}

	messages := []llm.Message{
		{Role: "system", Content: formatterSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Raw reply:\n%s\n\nStructured options already shown as cards:\n%s", rawText, optionsJSON)},
	}

	resp, err := f.client.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("formatter call failed: %w", err)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(resp.Content), &parsed); err != nil {
		return "", fmt.Errorf("formatter returned invalid JSON: %w", err)
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return "", fmt.Errorf("formatter returned empty text")
	}
	return parsed.Text, nil
}
