// Package key_value backs the user directory with redis, for
// deployments where several bot instances share registration state.
package key_value

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okadapy/persona-bot/internal/model"
)

type userInternal struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname,omitempty"`
	Persona      string    `json:"character"`
	RegisteredAt time.Time `json:"registered_at"`
}

type UserStorage struct {
	rdb *redis.Client
}

func NewUserStorage(rdb *redis.Client) *UserStorage {
	return &UserStorage{
		rdb: rdb,
	}
}

func (u *UserStorage) GetOrCreate(
	ctx context.Context, ext model.ExternalUser, defaultPersona string,
) (model.User, bool, error) {
	userInt := userInternal{
		ID:           ext.ID,
		Username:     ext.Username,
		Name:         ext.Name,
		Surname:      ext.Surname,
		Persona:      defaultPersona,
		RegisteredAt: time.Now(),
	}
	userJSON, err := json.Marshal(userInt)
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to marshal internal user: %w", err)
	}

	// SetNX keeps the create atomic across bot instances.
	created, err := u.rdb.SetNX(ctx, getUserIDKey(ext.ID), userJSON, 0).Result()
	if err != nil {
		return model.User{}, false, fmt.Errorf("failed to save user %d: %w", ext.ID, err)
	}
	if created {
		return toUser(userInt), true, nil
	}
	user, err := u.Get(ctx, ext.ID)
	if err != nil {
		return model.User{}, false, err
	}
	return user, false, nil
}

func (u *UserStorage) Get(ctx context.Context, userID int64) (model.User, error) {
	userInt, err := u.getUser(ctx, userID)
	if err != nil {
		return model.User{}, err
	}
	return toUser(userInt), nil
}

func (u *UserStorage) SetPersona(ctx context.Context, userID int64, personaName string) error {
	userInt, err := u.getUser(ctx, userID)
	if err != nil {
		return err
	}
	userInt.Persona = personaName
	userJSON, err := json.Marshal(userInt)
	if err != nil {
		return fmt.Errorf("failed to marshal internal user: %w", err)
	}
	if err = u.rdb.Set(ctx, getUserIDKey(userID), userJSON, 0).Err(); err != nil {
		return fmt.Errorf("failed to save user %d: %w", userID, err)
	}
	return nil
}

func (u *UserStorage) getUser(ctx context.Context, userID int64) (userInternal, error) {
	userRaw, err := u.rdb.Get(ctx, getUserIDKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return userInternal{}, model.ErrUnknownUser
		}
		return userInternal{}, fmt.Errorf("failed to get user %d: %w", userID, err)
	}
	var userInt userInternal
	if err = json.Unmarshal([]byte(userRaw), &userInt); err != nil {
		return userInternal{}, fmt.Errorf("failed to unmarshal user %d: %w", userID, err)
	}
	return userInt, nil
}

func toUser(userInt userInternal) model.User {
	return model.User{
		ID:           userInt.ID,
		Username:     userInt.Username,
		Name:         userInt.Name,
		Surname:      userInt.Surname,
		Persona:      userInt.Persona,
		RegisteredAt: userInt.RegisteredAt,
	}
}

func getUserIDKey(id int64) string {
	return fmt.Sprintf("user_%d", id)
}
