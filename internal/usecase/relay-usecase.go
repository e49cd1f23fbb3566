package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/okadapy/persona-bot/internal/model"
)

// UserDirectory keeps registration records and the selected persona.
type UserDirectory interface {
	// GetOrCreate registers the user on first contact. It reports
	// whether a new record was created and never overwrites an
	// existing record.
	GetOrCreate(ctx context.Context, ext model.ExternalUser, defaultPersona string) (model.User, bool, error)
	Get(ctx context.Context, userID int64) (model.User, error)
	SetPersona(ctx context.Context, userID int64, personaName string) error
}

// PersonaStore is the read-only character lookup seeded at startup.
type PersonaStore interface {
	Lookup(ctx context.Context, name string) (model.Persona, error)
}

// ConversationLog is the append-only store of messages and replies.
type ConversationLog interface {
	AppendMessage(ctx context.Context, msg model.InboundMessage) error
	AppendReply(ctx context.Context, reply model.Reply) error
}

// CompletionClient turns a persona-scoped prompt into reply text.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userText string) (string, error)
}

// AnalyticsEmitter reports behavioral events. Implementations contain
// their own failures and must not block the caller.
type AnalyticsEmitter interface {
	Emit(userID int64, eventType model.EventType)
}

type RelayUsecaseDeps struct {
	Users      UserDirectory
	Personas   PersonaStore
	Log        ConversationLog
	Completion CompletionClient
	Analytics  AnalyticsEmitter
}

// RelayUsecase turns one inbound conversational event into store
// writes, a completion call and a user-facing answer.
type RelayUsecase struct {
	RelayUsecaseDeps
	defaultPersona string
}

func NewRelayUsecase(deps RelayUsecaseDeps, defaultPersona string) *RelayUsecase {
	if defaultPersona == "" {
		defaultPersona = model.DefaultPersonaName
	}
	return &RelayUsecase{
		RelayUsecaseDeps: deps,
		defaultPersona:   defaultPersona,
	}
}

// OnStart registers the user if needed and returns the greeting of
// their current persona. Calling it again for a known user is a no-op
// apart from the greeting.
func (r *RelayUsecase) OnStart(ctx context.Context, ext model.ExternalUser) (string, error) {
	user, created, err := r.Users.GetOrCreate(ctx, ext, r.defaultPersona)
	if err != nil {
		return "", fmt.Errorf("failed to get or create user: %w", err)
	}
	if created {
		r.Analytics.Emit(user.ID, model.EventRegistration)
	}
	persona, err := r.Personas.Lookup(ctx, user.Persona)
	if err != nil {
		return "", fmt.Errorf("failed to lookup persona %q: %w", user.Persona, err)
	}
	return persona.GreetingText, nil
}

// OnPersonaSelected switches the user to the named persona and returns
// its greeting. The stored persona is untouched when the name is
// unknown.
func (r *RelayUsecase) OnPersonaSelected(ctx context.Context, userID int64, personaName string) (string, error) {
	persona, err := r.Personas.Lookup(ctx, personaName)
	if err != nil {
		return "", fmt.Errorf("failed to lookup persona %q: %w", personaName, err)
	}
	if err = r.Users.SetPersona(ctx, userID, persona.Name); err != nil {
		return "", fmt.Errorf("failed to set persona for user %d: %w", userID, err)
	}
	r.Analytics.Emit(userID, model.EventPersonaChosen)
	return persona.GreetingText, nil
}

// OnTextMessage persists the message, asks the completion endpoint for
// an answer in the user's persona, persists the reply and returns the
// answer text. The inbound message is durable before the completion
// call; on completion failure no reply is written.
func (r *RelayUsecase) OnTextMessage(ctx context.Context, msg model.InboundMessage) (string, error) {
	user, err := r.Users.Get(ctx, msg.From)
	if err != nil {
		return "", fmt.Errorf("failed to get user %d: %w", msg.From, err)
	}
	persona, err := r.Personas.Lookup(ctx, user.Persona)
	if err != nil {
		return "", fmt.Errorf("failed to lookup persona %q: %w", user.Persona, err)
	}

	if msg.Time.IsZero() {
		msg.Time = time.Now()
	}
	if err = r.Log.AppendMessage(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to append message %d: %w", msg.ID, err)
	}
	r.Analytics.Emit(user.ID, model.EventMessageReceived)

	answer, err := r.Completion.Complete(ctx, persona.SystemPrompt, msg.Text)
	if err != nil {
		return "", fmt.Errorf("failed to complete message %d: %w", msg.ID, err)
	}

	reply := model.Reply{
		ToMessage: msg.ID,
		Text:      answer,
		Time:      time.Now(),
	}
	if err = r.Log.AppendReply(ctx, reply); err != nil {
		return "", fmt.Errorf("failed to append reply to message %d: %w", msg.ID, err)
	}
	r.Analytics.Emit(user.ID, model.EventAnswerSent)
	return answer, nil
}
