package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"venti-agent/internal/agent"
	"venti-agent/internal/catalog"
	"venti-agent/internal/config"
	"venti-agent/internal/enrollment"
	"venti-agent/internal/users"
)

// SuggestEventsParams mirrors the suggest_events wire contract, plus the
// user whose profile preferences are expressed through the intent.
type SuggestEventsParams struct {
	UserID     string `json:"userId" mcp:"id of the user asking for suggestions"`
	Intent     string `json:"intent" mcp:"search intent extracted from the user message"`
	MaxResults int    `json:"maxResults,omitempty" mcp:"maximum number of events to suggest (default: 3)"`
}

// EnrollUserParams mirrors the enroll_user wire contract.
type EnrollUserParams struct {
	UserID   string   `json:"userId" mcp:"id of the user to enroll"`
	EventIDs []string `json:"eventIds" mcp:"ids of the events to enroll the user in"`
}

// EventsMCPServer exposes the event tools to external MCP hosts, backed by
// the same catalog and enrollment components the chat agent uses.
type EventsMCPServer struct {
	toolbox  *agent.Toolbox
	profiles users.ProfileSource
}

func (s *EventsMCPServer) SuggestEvents(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[SuggestEventsParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments

	profile, ok := s.profiles.Get(args.UserID)
	if !ok {
		return textResult(true, fmt.Sprintf("❌ Unknown user: %s", args.UserID)), nil
	}

	options := s.toolbox.SuggestEvents(profile, args.Intent, args.MaxResults)
	payload, err := json.Marshal(options)
	if err != nil {
		return textResult(true, fmt.Sprintf("❌ Failed to encode options: %v", err)), nil
	}
	return textResult(false, string(payload)), nil
}

func (s *EventsMCPServer) EnrollUser(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[EnrollUserParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	if len(args.EventIDs) == 0 {
		return textResult(true, "❌ eventIds is required"), nil
	}

	result := s.toolbox.EnrollUser(args.UserID, args.EventIDs)
	payload, err := json.Marshal(result)
	if err != nil {
		return textResult(true, fmt.Sprintf("❌ Failed to encode result: %v", err)), nil
	}
	return textResult(!result.Success, string(payload)), nil
}

func textResult(isError bool, text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: isError,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	eventRepo, err := catalog.NewFileRepository(cfg.EventsFilePath)
	if err != nil {
		log.Fatalf("❌ failed to init event catalog: %v", err)
	}
	userRepo, err := users.NewFileRepository(cfg.UsersFilePath)
	if err != nil {
		log.Fatalf("❌ failed to init user repo: %v", err)
	}
	enrollRepo, err := enrollment.NewFileRepository(cfg.EnrollmentsFilePath)
	if err != nil {
		log.Fatalf("❌ failed to init enrollment repo: %v", err)
	}

	log.Printf("🚀 Starting Venti events MCP server [events=%d]", len(eventRepo.All()))

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "venti-events-mcp",
		Version: "1.0.0",
	}, nil)

	eventsServer := &EventsMCPServer{
		toolbox:  agent.NewToolbox(eventRepo, enrollRepo),
		profiles: userRepo,
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "suggest_events",
		Description: "Suggests catalog events matched against a user's profile and a free-text intent, with match percentages",
	}, eventsServer.SuggestEvents)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "enroll_user",
		Description: "Enrolls a user in one or more catalog events by id",
	}, eventsServer.EnrollUser)

	log.Printf("📋 Registered 2 tools: suggest_events, enroll_user")
	log.Printf("🔗 Starting server on stdin/stdout...")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
