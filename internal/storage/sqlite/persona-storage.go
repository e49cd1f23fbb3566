package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/okadapy/persona-bot/internal/model"
)

func (s *Storage) Lookup(ctx context.Context, name string) (model.Persona, error) {
	var persona model.Persona
	err := s.db.QueryRowContext(
		ctx,
		"SELECT name, greeting_text, system_prompt FROM characters WHERE name = ?",
		name,
	).Scan(&persona.Name, &persona.GreetingText, &persona.SystemPrompt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Persona{}, model.ErrUnknownPersona
		}
		return model.Persona{}, fmt.Errorf("failed to query character %q: %w", name, err)
	}
	return persona, nil
}
