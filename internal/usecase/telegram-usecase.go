package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/sourcegraph/conc"

	"github.com/okadapy/persona-bot/config"
	"github.com/okadapy/persona-bot/internal/model"
	"github.com/okadapy/persona-bot/pkg/local"
)

const (
	CommandStart = "start"
	CommandMenu  = "menu"
)

var (
	textWelcome = local.NewSet(
		"Good afternoon!\nWith this bot you can simulate the behavior of your favorite characters!",
		local.NewTrans(
			local.Rus, "Добрый день!\nС помощью данного бота вы сможете симулировать поведение ваших любимых персонажей!",
		),
	)
	textMenu = local.NewSet(
		"Menu:",
		local.NewTrans(local.Rus, "Меню:"),
	)
	textPickerButton = local.NewSet(
		"Choose a character",
		local.NewTrans(local.Rus, "Выбрать персонажа"),
	)
	textPersonaUpdated = local.NewSet(
		"Character updated!\nNew character - %s",
		local.NewTrans(local.Rus, "Персонаж обновлен!\nНовый персонаж - %s"),
	)
	textUnknownPersona = local.NewSet(
		"I don't know that character. Pick one from the menu.",
		local.NewTrans(local.Rus, "Я не знаю такого персонажа. Выберите одного из меню."),
	)
	textNotRegistered = local.NewSet(
		"We haven't met yet. Press /start first.",
		local.NewTrans(local.Rus, "Мы еще не знакомы. Сначала нажмите /start."),
	)
	textNoResponse = local.NewSet(
		"Could not get a response. Try later.",
		local.NewTrans(local.Rus, "Не удалось получить ответ. Попробуйте позже."),
	)
	textServerError = local.NewSet(
		"Something wrong with me. Try later.",
		local.NewTrans(local.Rus, "Что-то со мной не так. Попробуйте позже."),
	)
	textCommandUnknown = local.NewSet(
		"I don't know that command.",
		local.NewTrans(local.Rus, "Я не знаю такой команды."),
	)
)

type TelegramUsecaseDeps struct {
	Relay *RelayUsecase
	Bot   *api.BotAPI
}

// TelegramUsecase adapts Telegram updates into the three relay events
// and sends the relay's answers back to the chat.
type TelegramUsecase struct {
	TelegramUsecaseDeps
	cfg config.Telegram
}

func NewTelegramUsecase(cfg config.Telegram, deps TelegramUsecaseDeps) (*TelegramUsecase, error) {
	_, err := deps.Bot.Request(
		api.NewSetMyCommands(
			[]api.BotCommand{
				{
					Command:     CommandStart,
					Description: "Register and show the character menu",
				},
				{
					Command:     CommandMenu,
					Description: "Show the character menu",
				},
			}...,
		),
	)
	if err != nil {
		return nil, err
	}

	return &TelegramUsecase{
		TelegramUsecaseDeps: deps,
		cfg:                 cfg,
	}, nil
}

// Run polls for updates until ctx is canceled, then finishes the
// in-flight handlers and returns so the caller's cleanup can run.
func (t *TelegramUsecase) Run(ctx context.Context) error {
	u := api.NewUpdate(0)
	u.Timeout = t.cfg.UpdateTimeout

	updates := t.Bot.GetUpdatesChan(u)
	go func() {
		<-ctx.Done()
		log.Println("stopping update polling")
		t.Bot.StopReceivingUpdates()
	}()

	return t.consumeUpdates(updates)
}

// consumeUpdates drains the update channel and returns once the bot
// stops receiving updates.
func (t *TelegramUsecase) consumeUpdates(updates api.UpdatesChannel) error {
	wg := conc.NewWaitGroup()
	for update := range updates {
		if update.Message == nil || update.Message.From == nil {
			continue
		}
		msg := update.Message
		wg.Go(
			func() {
				if err := t.handleMessage(context.Background(), msg); err != nil {
					log.Printf("failed to handle message %d: %v\n", msg.MessageID, err)
				}
			},
		)
	}
	wg.Wait()
	return nil
}

func (t *TelegramUsecase) handleMessage(ctx context.Context, msg *api.Message) error {
	chatID := msg.Chat.ID
	lang := local.Language(msg.From.LanguageCode)

	if msg.IsCommand() {
		return t.handleCommand(ctx, msg, lang)
	}
	if msg.WebAppData != nil {
		return t.handlePersonaSelected(ctx, msg, lang)
	}
	if msg.Text == "" {
		return nil
	}

	inbound := model.InboundMessage{
		ID:   int64(msg.MessageID),
		From: msg.From.ID,
		Text: msg.Text,
		Time: time.Unix(int64(msg.Date), 0),
	}
	answer, err := t.Relay.OnTextMessage(ctx, inbound)
	if err != nil {
		t.sendMessageAndHandleErr(chatID, t.userFacingText(err, lang))
		return err
	}
	t.sendMessageAndHandleErr(chatID, answer)
	return nil
}

func (t *TelegramUsecase) handleCommand(ctx context.Context, msg *api.Message, lang local.Language) error {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case CommandStart:
		greeting, err := t.Relay.OnStart(
			ctx, model.ExternalUser{
				ID:       msg.From.ID,
				Username: msg.From.UserName,
				Name:     msg.From.FirstName,
				Surname:  msg.From.LastName,
			},
		)
		if err != nil {
			t.sendMessageAndHandleErr(chatID, textServerError.Text(lang))
			return err
		}
		t.sendPickerKeyboard(chatID, textWelcome.Text(lang), lang)
		t.sendMessageAndHandleErr(chatID, greeting)
	case CommandMenu:
		t.sendPickerKeyboard(chatID, textMenu.Text(lang), lang)
	default:
		t.sendMessageAndHandleErr(chatID, textCommandUnknown.Text(lang))
	}
	return nil
}

func (t *TelegramUsecase) handlePersonaSelected(ctx context.Context, msg *api.Message, lang local.Language) error {
	chatID := msg.Chat.ID
	personaName := msg.WebAppData.Data

	greeting, err := t.Relay.OnPersonaSelected(ctx, msg.From.ID, personaName)
	if err != nil {
		t.sendMessageAndHandleErr(chatID, t.userFacingText(err, lang))
		return err
	}
	t.sendMessageAndHandleErr(chatID, textPersonaUpdated.Format(lang, personaName))
	t.sendMessageAndHandleErr(chatID, greeting)
	return nil
}

func (t *TelegramUsecase) userFacingText(err error, lang local.Language) string {
	switch {
	case errors.Is(err, model.ErrUnknownPersona):
		return textUnknownPersona.Text(lang)
	case errors.Is(err, model.ErrUnknownUser):
		return textNotRegistered.Text(lang)
	case errors.Is(err, model.ErrCompletionFailed):
		return textNoResponse.Text(lang)
	default:
		return textServerError.Text(lang)
	}
}

func (t *TelegramUsecase) sendPickerKeyboard(chatID int64, text string, lang local.Language) {
	msg := api.NewMessage(chatID, text)
	msg.ReplyMarkup = api.ReplyKeyboardMarkup{
		Keyboard: [][]api.KeyboardButton{
			{
				{
					Text:   textPickerButton.Text(lang),
					WebApp: &api.WebAppInfo{URL: t.cfg.PersonaPickerURL},
				},
			},
		},
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
	}
	if _, err := t.Bot.Send(msg); err != nil {
		log.Printf("failed to send picker keyboard to chat %d: %v\n", chatID, err)
	}
}

func (t *TelegramUsecase) sendMessageAndHandleErr(chatID int64, text string) {
	if _, err := t.Bot.Send(api.NewMessage(chatID, text)); err != nil {
		log.Printf("failed to send new message to bot: %v\n", err)
	}
}
