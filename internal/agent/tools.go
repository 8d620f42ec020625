package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"venti-agent/internal/catalog"
	"venti-agent/internal/domain"
	"venti-agent/internal/enrollment"
	"venti-agent/internal/llm"
	"venti-agent/internal/matching"
)

const (
	toolSuggestEvents = "suggest_events"
	toolEnrollUser    = "enroll_user"

	// MaxOptions caps the options of any ChatResult regardless of what a
	// tool call requested.
	MaxOptions = 3

	defaultMaxResults = 3
)

// toolDefinitions declares the closed tool set. Field names are a wire
// contract: the system prompt and the model are built against them.
func toolDefinitions() []llm.Tool {
	return []llm.Tool{
		{
			Type: "function",
			Function: llm.Function{
				Name: toolSuggestEvents,
				Description: "OBLIGATORIO llamar cuando el usuario pida sugerencias o recomendaciones de eventos, " +
					"diga \"sorpréndeme\", quiera modificar el itinerario o mencione una categoría " +
					"(tecnología, música, arte, gastronomía, etc.). NUNCA listes eventos sin llamar esta herramienta. " +
					"Devuelve eventos reales del catálogo con porcentaje de match.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"intent": map[string]interface{}{
							"type": "string",
							"description": "La intención o tema de búsqueda extraído del mensaje del usuario. " +
								"Ejemplos: \"tecnología e innovación\", \"música en vivo y jazz\". " +
								"Si el usuario dice \"sorpréndeme\", usa sus intereses del perfil.",
						},
						"maxResults": map[string]interface{}{
							"type":        "integer",
							"description": "Número máximo de eventos a sugerir. Por defecto 3.",
						},
					},
					"required": []string{"intent"},
				},
			},
		},
		{
			Type: "function",
			Function: llm.Function{
				Name: toolEnrollUser,
				Description: "Inscribe al usuario en uno o más eventos específicos. Úsala cuando el usuario confirme " +
					"que quiere inscribirse a eventos del itinerario. Requiere los IDs de los eventos.",
				Parameters: map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"eventIds": map[string]interface{}{
							"type":        "array",
							"items":       map[string]interface{}{"type": "string"},
							"description": "Lista de IDs de eventos en los que inscribir al usuario. Ejemplo: [\"evt-001\", \"evt-003\"]",
						},
					},
					"required": []string{"eventIds"},
				},
			},
		},
	}
}

type suggestEventsArgs struct {
	Intent     string `json:"intent"`
	MaxResults int    `json:"maxResults"`
}

type enrollUserArgs struct {
	EventIDs []string `json:"eventIds"`
}

type EnrollResult struct {
	Success      bool     `json:"success"`
	Message      string   `json:"message"`
	EnrollmentID string   `json:"enrollmentId,omitempty"`
	EventNames   []string `json:"eventNames,omitempty"`
}

// Toolbox executes the two declared capabilities against the catalog and
// the enrollment sink.
type Toolbox struct {
	catalog catalog.Repository
	sink    enrollment.Sink
}

func NewToolbox(cat catalog.Repository, sink enrollment.Sink) *Toolbox {
	return &Toolbox{catalog: cat, sink: sink}
}

// execute runs a single tool call. The returned payload is always a JSON
// string suitable for a tool message; options is non-nil only for
// suggest_events. A non-nil error means the arguments failed the declared
// schema and must be fed back to the model, not raised.
func (t *Toolbox) execute(call llm.ToolCall, userID string, profile domain.Profile) (string, []domain.Option, error) {
	switch call.Function.Name {
	case toolSuggestEvents:
		var args suggestEventsArgs
		if err := decodeStrict(call.Function.Arguments, &args); err != nil {
			return "", nil, fmt.Errorf("invalid %s arguments: %w", toolSuggestEvents, err)
		}
		if strings.TrimSpace(args.Intent) == "" {
			return "", nil, fmt.Errorf("invalid %s arguments: intent is required", toolSuggestEvents)
		}
		options := t.SuggestEvents(profile, args.Intent, args.MaxResults)
		payload, err := json.Marshal(options)
		if err != nil {
			return "", nil, fmt.Errorf("encode options: %w", err)
		}
		return string(payload), options, nil

	case toolEnrollUser:
		var args enrollUserArgs
		if err := decodeStrict(call.Function.Arguments, &args); err != nil {
			return "", nil, fmt.Errorf("invalid %s arguments: %w", toolEnrollUser, err)
		}
		if len(args.EventIDs) == 0 {
			return "", nil, fmt.Errorf("invalid %s arguments: eventIds is required", toolEnrollUser)
		}
		result := t.EnrollUser(userID, args.EventIDs)
		payload, err := json.Marshal(result)
		if err != nil {
			return "", nil, fmt.Errorf("encode enroll result: %w", err)
		}
		return string(payload), nil, nil

	default:
		return "", nil, fmt.Errorf("unknown tool: %s", call.Function.Name)
	}
}

// SuggestEvents matches the catalog against the profile and intent and
// projects the top results into options. maxResults <= 0 falls back to the
// schema default.
func (t *Toolbox) SuggestEvents(profile domain.Profile, intent string, maxResults int) []domain.Option {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	scored := matching.Match(t.catalog.All(), profile, intent)
	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	options := make([]domain.Option, 0, len(scored))
	for _, e := range scored {
		options = append(options, domain.OptionFromScored(e))
	}
	return options
}

// EnrollUser resolves the ids against the catalog, silently dropping
// unknown ones, and enrolls the user in the rest. Sink failures come back
// as a structured failure payload, never as an error.
func (t *Toolbox) EnrollUser(userID string, eventIDs []string) EnrollResult {
	events := t.catalog.ByIDs(eventIDs)
	if len(events) == 0 {
		return EnrollResult{
			Success: false,
			Message: "No se encontraron eventos válidos para inscribir.",
		}
	}

	validIDs := make([]string, 0, len(events))
	names := make([]string, 0, len(events))
	for _, e := range events {
		validIDs = append(validIDs, e.ID)
		names = append(names, e.Title)
	}

	rec, err := t.sink.Enroll(userID, validIDs)
	if err != nil {
		return EnrollResult{
			Success: false,
			Message: fmt.Sprintf("No se pudo completar la inscripción: %v", err),
		}
	}

	return EnrollResult{
		Success:      true,
		Message:      fmt.Sprintf("¡Inscripción confirmada! Te has inscrito en: %s", strings.Join(names, ", ")),
		EnrollmentID: rec.ID,
		EventNames:   names,
	}
}

func decodeStrict(raw string, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
