package agent

import "venti-agent/internal/llm"

// State is the agent loop's position. The loop alternates StateAgent
// (model invocation) and StateTools (tool execution) until the model
// answers without tool calls.
type State int

const (
	StateAgent State = iota
	StateTools
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAgent:
		return "agent"
	case StateTools:
		return "tools"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// nextState decides the transition out of StateAgent based on the last
// model response.
func nextState(resp llm.Response) State {
	if resp.HasToolCalls() {
		return StateTools
	}
	return StateDone
}
