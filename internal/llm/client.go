package llm

import "context"

// Message roles follow the OpenAI chat convention. Tool results are carried
// as role "tool" with the originating tool name and call id.
type Message struct {
	Role       string
	Content    string
	Name       string
	ToolCallID string
	ToolCalls  []ToolCall
}

// Tool declares a callable capability to the model.
type Tool struct {
	Type     string
	Function Function
}

type Function struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolCall is a structured request emitted by the model. Arguments is the
// raw JSON string as received, so callers can decode it strictly.
type ToolCall struct {
	ID       string
	Type     string
	Function FunctionCall
}

type FunctionCall struct {
	Name      string
	Arguments string
}

type Response struct {
	Content          string
	ToolCalls        []ToolCall
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// HasToolCalls reports whether the model requested any tool execution.
func (r Response) HasToolCalls() bool { return len(r.ToolCalls) > 0 }

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}

// ToolCapableClient is implemented by providers that support tool calling.
// The agent orchestrator requires it; the formatter pass only needs Client.
type ToolCapableClient interface {
	Client
	GenerateWithTools(ctx context.Context, messages []Message, tools []Tool) (Response, error)
}
