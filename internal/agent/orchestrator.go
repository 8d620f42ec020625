package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"venti-agent/internal/domain"
	"venti-agent/internal/llm"
)

// Result is what one orchestrator run produces: the model's final text and
// the options surfaced by the last suggest_events call, if any.
type Result struct {
	Text    string
	Options []domain.Option
}

// Orchestrator drives the agent/tool alternation. A run starts in
// StateAgent and terminates when the model answers without tool calls or
// the turn cap is hit.
type Orchestrator struct {
	client   llm.ToolCapableClient
	tools    *Toolbox
	maxTurns int
}

// NewOrchestrator builds the loop. maxTurns bounds the number of model
// invocations per run; <= 0 disables the cap.
func NewOrchestrator(client llm.ToolCapableClient, tools *Toolbox, maxTurns int) *Orchestrator {
	return &Orchestrator{client: client, tools: tools, maxTurns: maxTurns}
}

const cappedText = "Lo siento, no pude terminar de procesar tu solicitud. ¿Puedes intentarlo de nuevo?"

// Run executes the state machine for one user message. The returned error
// is non-nil only for model transport failures; every tool-level problem is
// fed back to the model instead.
func (o *Orchestrator) Run(ctx context.Context, userID string, profile domain.Profile, history []llm.Message, userMessage string) (Result, error) {
	msgs := make([]llm.Message, 0, len(history)+2)
	msgs = append(msgs, llm.Message{Role: "system", Content: BuildContext(profile)})
	msgs = append(msgs, history...)
	msgs = append(msgs, llm.Message{Role: "user", Content: userMessage})

	var options []domain.Option
	var resp llm.Response

	state := StateAgent
	for turn := 0; state != StateDone; turn++ {
		if o.maxTurns > 0 && turn >= o.maxTurns {
			log.Printf("⚠️ agent loop for user %s hit turn cap (%d), giving up", userID, o.maxTurns)
			return Result{Text: cappedText, Options: capOptions(options)}, nil
		}

		var err error
		resp, err = o.client.GenerateWithTools(ctx, msgs, toolDefinitions())
		if err != nil {
			return Result{}, fmt.Errorf("model call failed: %w", err)
		}
		log.Printf("🤖 model turn %d [model=%s, tokens=%d, tool_calls=%d]",
			turn, resp.Model, resp.TotalTokens, len(resp.ToolCalls))

		msgs = append(msgs, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		state = nextState(resp)
		if state != StateTools {
			continue
		}

		// Execute every requested call sequentially, in the order the model
		// emitted them. Ordering matters when an enrollment precedes a
		// follow-up suggestion.
		for _, call := range resp.ToolCalls {
			payload, opts, err := o.tools.execute(call, userID, profile)
			if err != nil {
				log.Printf("⚠️ tool %s failed: %v", call.Function.Name, err)
				payload = fmt.Sprintf(`{"error": %q}`, err.Error())
			}
			msgs = append(msgs, llm.Message{
				Role:       "tool",
				Name:       call.Function.Name,
				ToolCallID: call.ID,
				Content:    payload,
			})
			if opts != nil {
				options = capOptions(opts)
			}
		}
		state = StateAgent
	}

	return Result{Text: extractText(resp.Content), Options: options}, nil
}

// extractText unwraps the {"text": ..., "options": ...} envelope when the
// model already self-formatted. Model-authored options are discarded: only
// tool output may become structured options.
func extractText(content string) string {
	var envelope struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal([]byte(content), &envelope); err == nil && envelope.Text != nil {
		return *envelope.Text
	}
	return content
}

func capOptions(options []domain.Option) []domain.Option {
	if len(options) > MaxOptions {
		return options[:MaxOptions]
	}
	return options
}
