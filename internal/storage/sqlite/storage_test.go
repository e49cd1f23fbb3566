package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okadapy/persona-bot/internal/model"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorage(":memory:")
	if err != nil {
		t.Fatalf("NewStorage err: %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })

	err = storage.SeedPersonas(context.Background(), model.DefaultPersonas())
	if err != nil {
		t.Fatalf("SeedPersonas err: %v", err)
	}
	return storage
}

func TestSeedPersonasIdempotent(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	// Second seed must not clobber or duplicate rows.
	if err := storage.SeedPersonas(ctx, model.DefaultPersonas()); err != nil {
		t.Fatalf("second SeedPersonas err: %v", err)
	}

	persona, err := storage.Lookup(ctx, "Mario")
	if err != nil {
		t.Fatalf("Lookup err: %v", err)
	}
	if persona.GreetingText == "" || persona.SystemPrompt == "" {
		t.Fatalf("incomplete persona %+v", persona)
	}

	if _, err = storage.Lookup(ctx, "Gandalf"); !errors.Is(err, model.ErrUnknownPersona) {
		t.Fatalf("expected ErrUnknownPersona, got %v", err)
	}
}

func TestUserLifecycle(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	ext := model.ExternalUser{ID: 42, Username: "u42", Name: "User", Surname: "Fortytwo"}

	user, created, err := storage.GetOrCreate(ctx, ext, "Mario")
	if err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}
	if !created {
		t.Fatal("expected first call to create the record")
	}
	if user.Persona != "Mario" || user.Username != "u42" {
		t.Fatalf("unexpected user %+v", user)
	}

	_, created, err = storage.GetOrCreate(ctx, model.ExternalUser{ID: 42, Username: "other"}, "Mario")
	if err != nil {
		t.Fatalf("second GetOrCreate err: %v", err)
	}
	if created {
		t.Fatal("second call must not create another record")
	}
	user, err = storage.Get(ctx, 42)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if user.Username != "u42" {
		t.Fatalf("identity fields must not be overwritten, got %q", user.Username)
	}

	if err = storage.SetPersona(ctx, 42, "Albert Einstein"); err != nil {
		t.Fatalf("SetPersona err: %v", err)
	}
	user, _ = storage.Get(ctx, 42)
	if user.Persona != "Albert Einstein" {
		t.Fatalf("expected persona update, got %q", user.Persona)
	}

	if err = storage.SetPersona(ctx, 99, "Mario"); !errors.Is(err, model.ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
	if _, err = storage.Get(ctx, 99); !errors.Is(err, model.ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}

func TestConversationLog(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	if _, _, err := storage.GetOrCreate(ctx, model.ExternalUser{ID: 42, Name: "U"}, "Mario"); err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}

	msg := model.InboundMessage{ID: 1, From: 42, Text: "Hello", Time: time.Now()}
	if err := storage.AppendMessage(ctx, msg); err != nil {
		t.Fatalf("AppendMessage err: %v", err)
	}

	if err := storage.AppendReply(ctx, model.Reply{ToMessage: 1, Text: "Hi there!"}); err != nil {
		t.Fatalf("AppendReply err: %v", err)
	}

	var replyID string
	var toMessage int64
	var text string
	err := storage.db.QueryRowContext(ctx, "SELECT id, to_message, text FROM replies").
		Scan(&replyID, &toMessage, &text)
	if err != nil {
		t.Fatalf("query replies: %v", err)
	}
	if replyID == "" {
		t.Fatal("reply id must be store-assigned")
	}
	if toMessage != 1 || text != "Hi there!" {
		t.Fatalf("unexpected reply row (%d, %q)", toMessage, text)
	}

	// Same message id twice in one conversation violates the PK.
	err = storage.AppendMessage(ctx, msg)
	var persistenceErr *model.PersistenceError
	if !errors.As(err, &persistenceErr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
}
