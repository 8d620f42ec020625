package agent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"venti-agent/internal/domain"
	"venti-agent/internal/llm"
)

// fakeModel replays a scripted sequence of responses and records every
// request it saw.
type fakeModel struct {
	script   []llm.Response
	err      error
	requests [][]llm.Message
}

func (f *fakeModel) Generate(ctx context.Context, messages []llm.Message) (llm.Response, error) {
	return f.GenerateWithTools(ctx, messages, nil)
}

func (f *fakeModel) GenerateWithTools(ctx context.Context, messages []llm.Message, tools []llm.Tool) (llm.Response, error) {
	f.requests = append(f.requests, messages)
	if f.err != nil {
		return llm.Response{}, f.err
	}
	if len(f.script) == 0 {
		return llm.Response{Content: "out of script"}, nil
	}
	resp := f.script[0]
	f.script = f.script[1:]
	return resp, nil
}

type fakeCatalog struct {
	events []domain.CatalogEvent
}

func (f *fakeCatalog) All() []domain.CatalogEvent { return f.events }

func (f *fakeCatalog) ByID(id string) (domain.CatalogEvent, bool) {
	for _, e := range f.events {
		if e.ID == id {
			return e, true
		}
	}
	return domain.CatalogEvent{}, false
}

func (f *fakeCatalog) ByIDs(ids []string) []domain.CatalogEvent {
	var out []domain.CatalogEvent
	for _, e := range f.events {
		for _, id := range ids {
			if e.ID == id {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func (f *fakeCatalog) ByTags(tags []string) []domain.CatalogEvent { return nil }
func (f *fakeCatalog) ByCity(city string) []domain.CatalogEvent   { return nil }

type fakeSink struct {
	calls [][]string
	err   error
}

func (f *fakeSink) Enroll(userID string, eventIDs []string) (domain.Enrollment, error) {
	f.calls = append(f.calls, eventIDs)
	if f.err != nil {
		return domain.Enrollment{}, f.err
	}
	return domain.Enrollment{ID: "enr-1", UserID: userID, EventIDs: eventIDs, CreatedAt: "2025-11-01T00:00:00Z"}, nil
}

func musicCatalog() *fakeCatalog {
	events := make([]domain.CatalogEvent, 0, 5)
	titles := []string{"Jazz Night", "Salsa en vivo", "Concierto Andino", "Rock Fest", "Cumbia Lima"}
	for i, title := range titles {
		events = append(events, domain.CatalogEvent{
			ID:       "evt-00" + string(rune('1'+i)),
			Title:    title,
			Category: "música",
			Tags:     []string{"música"},
			Location: domain.EventLocation{Venue: "La Noche", City: "Lima"},
		})
	}
	return &fakeCatalog{events: events}
}

func musicProfile() domain.Profile {
	return domain.Profile{
		Name:     "Diego",
		Location: domain.UserLocation{City: "Lima", Country: "Perú"},
		Preferences: domain.Preferences{
			Interests: []string{"música"},
			Tags:      []string{"música"},
		},
	}
}

func toolCall(id, name, args string) llm.ToolCall {
	return llm.ToolCall{
		ID:   id,
		Type: "function",
		Function: llm.FunctionCall{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestRunPlainAnswer(t *testing.T) {
	model := &fakeModel{script: []llm.Response{
		{Content: `{"text": "¡Hola Diego!", "options": []}`},
	}}
	orch := NewOrchestrator(model, NewToolbox(musicCatalog(), &fakeSink{}), 8)

	res, err := orch.Run(context.Background(), "user-1", musicProfile(), nil, "hola")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Text != "¡Hola Diego!" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
	if len(res.Options) != 0 {
		t.Fatalf("expected no options, got %d", len(res.Options))
	}

	// exactly one model turn, seeded system-first then user message last
	if len(model.requests) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(model.requests))
	}
	first := model.requests[0]
	if first[0].Role != "system" || !strings.Contains(first[0].Content, "Diego") {
		t.Fatalf("system message not profile-bound: %+v", first[0])
	}
	if last := first[len(first)-1]; last.Role != "user" || last.Content != "hola" {
		t.Fatalf("unexpected last message: %+v", last)
	}
}

func TestRunSuggestFlow(t *testing.T) {
	model := &fakeModel{script: []llm.Response{
		{ToolCalls: []llm.ToolCall{toolCall("call-1", toolSuggestEvents, `{"intent": "música"}`)}},
		{Content: `{"text": "Aquí tienes mis sugerencias", "options": []}`},
	}}
	orch := NewOrchestrator(model, NewToolbox(musicCatalog(), &fakeSink{}), 8)

	res, err := orch.Run(context.Background(), "user-1", musicProfile(), nil, "sorpréndeme")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Options) != 3 {
		t.Fatalf("expected 3 options, got %d", len(res.Options))
	}
	for i := 1; i < len(res.Options); i++ {
		if res.Options[i].MatchPercentage > res.Options[i-1].MatchPercentage {
			t.Fatalf("match percentages not non-increasing")
		}
	}
	for _, opt := range res.Options {
		if opt.Enrolled || opt.Saved {
			t.Fatalf("fresh option must not be enrolled/saved: %+v", opt)
		}
	}

	// second model call must carry the tool result message
	second := model.requests[1]
	toolMsg := second[len(second)-1]
	if toolMsg.Role != "tool" || toolMsg.Name != toolSuggestEvents || toolMsg.ToolCallID != "call-1" {
		t.Fatalf("tool result not fed back: %+v", toolMsg)
	}
	var fed []domain.Option
	if err := json.Unmarshal([]byte(toolMsg.Content), &fed); err != nil {
		t.Fatalf("tool payload not valid JSON: %v", err)
	}
	if diff := cmp.Diff(res.Options, fed); diff != "" {
		t.Fatalf("fed options differ from result options:\n%s", diff)
	}
}

func TestRunCapsRequestedMaxResults(t *testing.T) {
	model := &fakeModel{script: []llm.Response{
		{ToolCalls: []llm.ToolCall{toolCall("call-1", toolSuggestEvents, `{"intent": "música", "maxResults": 6}`)}},
		{Content: "listo"},
	}}
	orch := NewOrchestrator(model, NewToolbox(musicCatalog(), &fakeSink{}), 8)

	res, err := orch.Run(context.Background(), "user-1", musicProfile(), nil, "dame muchos eventos")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Options) > MaxOptions {
		t.Fatalf("requesting maxResults=6 must still yield <= %d options, got %d", MaxOptions, len(res.Options))
	}
}

func TestRunMalformedToolArguments(t *testing.T) {
	model := &fakeModel{script: []llm.Response{
		{ToolCalls: []llm.ToolCall{toolCall("call-1", toolSuggestEvents, `{"intent": 42}`)}},
		{Content: "disculpa, lo intento de otra forma"},
	}}
	orch := NewOrchestrator(model, NewToolbox(musicCatalog(), &fakeSink{}), 8)

	res, err := orch.Run(context.Background(), "user-1", musicProfile(), nil, "hola")
	if err != nil {
		t.Fatalf("malformed tool args must not abort the run: %v", err)
	}
	if res.Text != "disculpa, lo intento de otra forma" {
		t.Fatalf("unexpected text: %q", res.Text)
	}

	second := model.requests[1]
	toolMsg := second[len(second)-1]
	if toolMsg.Role != "tool" || !strings.Contains(toolMsg.Content, "error") {
		t.Fatalf("expected tool-error message fed back, got %+v", toolMsg)
	}
}

func TestRunSequentialToolOrder(t *testing.T) {
	sink := &fakeSink{}
	model := &fakeModel{script: []llm.Response{
		{ToolCalls: []llm.ToolCall{
			toolCall("call-1", toolEnrollUser, `{"eventIds": ["evt-001"]}`),
			toolCall("call-2", toolSuggestEvents, `{"intent": "música"}`),
		}},
		{Content: "hecho"},
	}}
	orch := NewOrchestrator(model, NewToolbox(musicCatalog(), sink), 8)

	res, err := orch.Run(context.Background(), "user-1", musicProfile(), nil, "inscríbeme y sugiere más")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sink.calls) != 1 {
		t.Fatalf("expected one enrollment, got %d", len(sink.calls))
	}
	if len(res.Options) == 0 {
		t.Fatalf("suggestion after enrollment should surface options")
	}

	// tool messages appear in emitted order
	second := model.requests[1]
	n := len(second)
	if second[n-2].Name != toolEnrollUser || second[n-1].Name != toolSuggestEvents {
		t.Fatalf("tool results out of order: %s then %s", second[n-2].Name, second[n-1].Name)
	}
}

func TestRunTurnCap(t *testing.T) {
	// a pathological model that always wants another tool call
	loop := llm.Response{ToolCalls: []llm.ToolCall{toolCall("c", toolSuggestEvents, `{"intent": "música"}`)}}
	model := &fakeModel{script: []llm.Response{loop, loop, loop, loop, loop, loop}}
	orch := NewOrchestrator(model, NewToolbox(musicCatalog(), &fakeSink{}), 3)

	res, err := orch.Run(context.Background(), "user-1", musicProfile(), nil, "sorpréndeme")
	if err != nil {
		t.Fatalf("turn cap must degrade, not error: %v", err)
	}
	if len(model.requests) != 3 {
		t.Fatalf("expected exactly 3 model calls, got %d", len(model.requests))
	}
	if res.Text == "" {
		t.Fatalf("capped run must still answer")
	}
	// tool options collected before the cap survive
	if len(res.Options) == 0 || len(res.Options) > MaxOptions {
		t.Fatalf("expected 1..%d collected options, got %d", MaxOptions, len(res.Options))
	}
}

func TestRunModelFailurePropagates(t *testing.T) {
	model := &fakeModel{err: errors.New("rate limited")}
	orch := NewOrchestrator(model, NewToolbox(musicCatalog(), &fakeSink{}), 8)

	if _, err := orch.Run(context.Background(), "user-1", musicProfile(), nil, "hola"); err == nil {
		t.Fatalf("transport failure must surface as an error")
	}
}

func TestRunNonJSONContentPassedThrough(t *testing.T) {
	model := &fakeModel{script: []llm.Response{{Content: "solo texto plano"}}}
	orch := NewOrchestrator(model, NewToolbox(musicCatalog(), &fakeSink{}), 8)

	res, err := orch.Run(context.Background(), "user-1", musicProfile(), nil, "hola")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Text != "solo texto plano" {
		t.Fatalf("non-JSON content must pass through untouched, got %q", res.Text)
	}
}
