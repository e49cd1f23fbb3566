package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/okadapy/persona-bot/internal/model"
)

func (s *Storage) GetOrCreate(
	ctx context.Context, ext model.ExternalUser, defaultPersona string,
) (model.User, bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		"INSERT INTO users (id, username, name, surname, character, registered_at) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING",
		ext.ID, ext.Username, ext.Name, ext.Surname, defaultPersona, time.Now(),
	)
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to insert user %d: %w", ext.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	user, err := s.Get(ctx, ext.ID)
	if err != nil {
		return model.User{}, false, err
	}
	return user, affected > 0, nil
}

func (s *Storage) Get(ctx context.Context, userID int64) (model.User, error) {
	var user model.User
	var surname sql.NullString
	err := s.db.QueryRowContext(
		ctx,
		"SELECT id, username, name, surname, character, registered_at FROM users WHERE id = ?",
		userID,
	).Scan(&user.ID, &user.Username, &user.Name, &surname, &user.Persona, &user.RegisteredAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrUnknownUser
		}
		return model.User{}, fmt.Errorf("failed to query user %d: %w", userID, err)
	}
	user.Surname = surname.String
	return user, nil
}

func (s *Storage) SetPersona(ctx context.Context, userID int64, personaName string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET character = ? WHERE id = ?", personaName, userID)
	if err != nil {
		return fmt.Errorf("failed to update persona for user %d: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return model.ErrUnknownUser
	}
	return nil
}
