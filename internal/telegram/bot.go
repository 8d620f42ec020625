package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"venti-agent/internal/conversation"
	"venti-agent/internal/domain"
)

const (
	clearCmd        = "clear_session"
	enrollCmdPrefix = "enroll:"
)

// Bot bridges Telegram chats to the conversation service. Each Telegram
// user maps to a profile id "tg-<user id>".
type Bot struct {
	api *tgbotapi.BotAPI
	svc *conversation.Service
}

func New(botToken string, svc *conversation.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, svc: svc}, nil
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleIncomingMessage(ctx, update.Message)
			continue
		}
		if update.CallbackQuery != nil {
			b.handleCallback(ctx, update.CallbackQuery)
			continue
		}
	}
}

func profileID(telegramID int64) string {
	return "tg-" + strconv.FormatInt(telegramID, 10)
}

func (b *Bot) handleIncomingMessage(ctx context.Context, msg *tgbotapi.Message) {
	log.Printf("Incoming message from %d (@%s): %q", msg.From.ID, msg.From.UserName, msg.Text)

	result, err := b.svc.Chat(ctx, profileID(msg.From.ID), msg.Text)
	if err != nil {
		log.Printf("❌ chat failed: %v", err)
		b.sendMessage(msg.Chat.ID, "Lo siento, algo salió mal. Inténtalo de nuevo en un momento.")
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, renderResult(result))
	out.ReplyMarkup = resultKeyboard(result)
	if _, err := b.api.Send(out); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}

// renderResult turns a ChatResult into a single Telegram message: the text
// first, then one line per option card.
func renderResult(result domain.ChatResult) string {
	var sb strings.Builder
	sb.WriteString(result.Text)
	for i, opt := range result.Options {
		sb.WriteString(fmt.Sprintf("\n\n%d. %s — %d%% match\n📍 %s · 📅 %s %s · 💰 %s",
			i+1, opt.Title, opt.MatchPercentage, opt.Location, opt.Date, opt.Time, opt.Price))
	}
	return sb.String()
}

func resultKeyboard(result domain.ChatResult) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, opt := range result.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Inscribirme: "+opt.Title, enrollCmdPrefix+opt.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Limpiar conversación", clearCmd),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	switch {
	case cb.Data == clearCmd:
		b.svc.ClearSession(profileID(cb.From.ID))
		b.sendMessage(cb.Message.Chat.ID, "Conversación limpiada. ¡Empecemos de nuevo!")

	case strings.HasPrefix(cb.Data, enrollCmdPrefix):
		eventID := strings.TrimPrefix(cb.Data, enrollCmdPrefix)
		// route the enrollment through the agent so the confirmation is conversational
		result, err := b.svc.Chat(ctx, profileID(cb.From.ID),
			fmt.Sprintf("Quiero inscribirme en el evento %s", eventID))
		if err != nil {
			log.Printf("❌ enroll via callback failed: %v", err)
			b.sendMessage(cb.Message.Chat.ID, "No pude completar la inscripción, inténtalo de nuevo.")
			return
		}
		b.sendMessage(cb.Message.Chat.ID, renderResult(result))
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("failed to send message: %v", err)
	}
}
