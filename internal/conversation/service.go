// Package conversation is the front-facing facade: it resolves the profile,
// runs the agent pipeline and maintains the per-user session.
package conversation

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"venti-agent/internal/agent"
	"venti-agent/internal/domain"
	"venti-agent/internal/llm"
	"venti-agent/internal/session"
	"venti-agent/internal/storage"
	"venti-agent/internal/users"
)

const profileNotFoundText = "Lo siento, no encuentro tu perfil. Inicia sesión de nuevo e inténtalo otra vez."

type Service struct {
	profiles     users.ProfileSource
	orchestrator *agent.Orchestrator
	guard        *agent.Guard
	formatter    *agent.Formatter
	sessions     *session.Store
	recorder     storage.Recorder
}

func NewService(
	profiles users.ProfileSource,
	orchestrator *agent.Orchestrator,
	guard *agent.Guard,
	formatter *agent.Formatter,
) *Service {
	return &Service{
		profiles:     profiles,
		orchestrator: orchestrator,
		guard:        guard,
		formatter:    formatter,
		sessions:     session.NewStore(),
	}
}

// WithRecorder enables chat-turn logging. A nil recorder disables it.
func (s *Service) WithRecorder(rec storage.Recorder) *Service {
	s.recorder = rec
	return s
}

// Chat runs one conversational turn. Only model transport failures return
// an error; everything else degrades to an explanatory ChatResult.
func (s *Service) Chat(ctx context.Context, userID, message string) (domain.ChatResult, error) {
	profile, ok := s.profiles.Get(userID)
	if !ok {
		log.Printf("⚠️ chat for unknown user %s", userID)
		return domain.ChatResult{Text: profileNotFoundText, Options: []domain.Option{}}, nil
	}

	var result domain.ChatResult
	var runErr error

	// The whole turn holds the user's session lock so concurrent turns for
	// the same user cannot interleave read-history and append.
	s.sessions.WithLock(userID, func() {
		history := s.sessions.Get(userID)

		res, err := s.orchestrator.Run(ctx, userID, profile, history, message)
		if err != nil {
			runErr = err
			return
		}

		result = s.finalize(ctx, profile, message, res)

		encoded, err := json.Marshal(result)
		if err != nil {
			encoded = []byte(result.Text)
		}
		s.sessions.Append(userID,
			llm.Message{Role: "user", Content: message},
			llm.Message{Role: "assistant", Content: string(encoded)},
		)
	})

	if runErr != nil {
		return domain.ChatResult{}, runErr
	}

	if s.recorder != nil {
		optionIDs := make([]string, 0, len(result.Options))
		for _, opt := range result.Options {
			optionIDs = append(optionIDs, opt.ID)
		}
		err := s.recorder.AppendInteraction(storage.Interaction{
			Timestamp:     time.Now().UTC(),
			UserID:        userID,
			UserMessage:   message,
			AssistantText: result.Text,
			OptionIDs:     optionIDs,
		})
		if err != nil {
			log.Printf("⚠️ failed to record interaction: %v", err)
		}
	}
	return result, nil
}

// finalize applies the guard and formatter passes and enforces the output
// contract on whatever the orchestrator produced.
func (s *Service) finalize(ctx context.Context, profile domain.Profile, message string, res agent.Result) domain.ChatResult {
	options := res.Options
	text := res.Text

	rescued := false
	if len(options) == 0 && s.guard.Detect(text) {
		log.Printf("🔍 hallucinated event listing detected, rebuilding options from catalog")
		options = s.guard.Rescue(profile, message)
		rescued = len(options) > 0
	}

	if len(options) > 0 || rescued {
		formatted, err := s.formatter.Format(ctx, text, options)
		if err != nil {
			log.Printf("⚠️ formatter pass failed, keeping raw text: %v", err)
		} else {
			text = formatted
		}
	}

	if len(options) > agent.MaxOptions {
		options = options[:agent.MaxOptions]
	}
	if options == nil {
		options = []domain.Option{}
	}
	return domain.ChatResult{Text: text, Options: options}
}

// ClearSession deletes the user's conversation history. Idempotent.
func (s *Service) ClearSession(userID string) {
	s.sessions.Clear(userID)
}
