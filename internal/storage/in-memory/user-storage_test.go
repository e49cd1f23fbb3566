package in_memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okadapy/persona-bot/internal/model"
	in_memory "github.com/okadapy/persona-bot/internal/storage/in-memory"
)

func TestGetOrCreateIdempotent(t *testing.T) {
	users := in_memory.NewUserStorage()
	ctx := context.Background()
	ext := model.ExternalUser{ID: 42, Username: "u42", Name: "User"}

	user, created, err := users.GetOrCreate(ctx, ext, "Mario")
	if err != nil {
		t.Fatalf("GetOrCreate err: %v", err)
	}
	if !created || user.Persona != "Mario" {
		t.Fatalf("unexpected first result: created=%v user=%+v", created, user)
	}

	_, created, err = users.GetOrCreate(ctx, model.ExternalUser{ID: 42, Username: "changed"}, "Mario")
	if err != nil {
		t.Fatalf("second GetOrCreate err: %v", err)
	}
	if created {
		t.Fatal("second call must not create another record")
	}
	if users.Count() != 1 {
		t.Fatalf("expected 1 record, got %d", users.Count())
	}

	user, err = users.Get(ctx, 42)
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if user.Username != "u42" {
		t.Fatalf("identity fields must not be overwritten, got %q", user.Username)
	}
}

func TestSetPersonaUnknownUser(t *testing.T) {
	users := in_memory.NewUserStorage()

	err := users.SetPersona(context.Background(), 99, "Mario")
	if !errors.Is(err, model.ErrUnknownUser) {
		t.Fatalf("expected ErrUnknownUser, got %v", err)
	}
}
