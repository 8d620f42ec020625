package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"venti-agent/internal/agent"
	"venti-agent/internal/catalog"
	"venti-agent/internal/config"
	"venti-agent/internal/conversation"
	"venti-agent/internal/enrollment"
	"venti-agent/internal/llm"
	"venti-agent/internal/storage"
	"venti-agent/internal/telegram"
	"venti-agent/internal/users"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	eventRepo, err := catalog.NewFileRepository(cfg.EventsFilePath)
	if err != nil {
		log.Fatalf("failed to init event catalog: %v", err)
	}
	userRepo, err := users.NewFileRepository(cfg.UsersFilePath)
	if err != nil {
		log.Fatalf("failed to init user repo: %v", err)
	}
	enrollRepo, err := enrollment.NewFileRepository(cfg.EnrollmentsFilePath)
	if err != nil {
		log.Fatalf("failed to init enrollment repo: %v", err)
	}

	factory := llm.NewFactory(cfg)
	agentClient, err := factory.CreateAgentClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create agent llm client: %v", err)
	}
	formatterClient, err := factory.CreateClient(string(cfg.FormatterProvider), cfg.FormatterModel)
	if err != nil {
		log.Fatalf("failed to create formatter llm client: %v", err)
	}
	if oc, ok := formatterClient.(*llm.OpenAIClient); ok {
		formatterClient = oc.WithTemperature(cfg.FormatterTemperature)
	}

	svc := conversation.NewService(
		userRepo,
		agent.NewOrchestrator(agentClient, agent.NewToolbox(eventRepo, enrollRepo), cfg.AgentMaxTurns),
		agent.NewGuard(eventRepo),
		agent.NewFormatter(formatterClient),
	)
	if cfg.ChatLogPath != "" {
		rec, err := storage.NewFileRecorder(cfg.ChatLogPath)
		if err != nil {
			log.Printf("failed to init chat recorder: %v", err)
		} else {
			svc.WithRecorder(rec)
		}
	}

	if cfg.CatalogReloadCron != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.CatalogReloadCron, func() {
			if err := eventRepo.Reload(); err != nil {
				log.Printf("⚠️ catalog reload failed: %v", err)
				return
			}
			log.Printf("🔄 catalog reloaded, %d events", len(eventRepo.All()))
		}); err != nil {
			log.Fatalf("invalid catalog reload schedule %q: %v", cfg.CatalogReloadCron, err)
		}
		c.Start()
		defer c.Stop()
	}

	bot, err := telegram.New(cfg.TelegramBotToken, svc)
	if err != nil {
		log.Fatalf("failed to create bot: %v", err)
	}

	log.Printf("🚀 Venti agent started [model=%s, events=%d]", cfg.OpenAIModel, len(eventRepo.All()))
	bot.Start(context.Background())
}
