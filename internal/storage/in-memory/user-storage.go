package in_memory

import (
	"context"
	"sync"
	"time"

	"github.com/okadapy/persona-bot/internal/model"
)

// UserStorage is a mutex-guarded map directory. Used by tests and by
// local runs without a database.
type UserStorage struct {
	mu    sync.RWMutex
	users map[int64]model.User
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		users: make(map[int64]model.User),
	}
}

func (u *UserStorage) GetOrCreate(
	_ context.Context, ext model.ExternalUser, defaultPersona string,
) (model.User, bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if user, ok := u.users[ext.ID]; ok {
		return user, false, nil
	}
	user := model.User{
		ID:           ext.ID,
		Username:     ext.Username,
		Name:         ext.Name,
		Surname:      ext.Surname,
		Persona:      defaultPersona,
		RegisteredAt: time.Now(),
	}
	u.users[ext.ID] = user
	return user, true, nil
}

func (u *UserStorage) Get(_ context.Context, userID int64) (model.User, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()

	user, ok := u.users[userID]
	if !ok {
		return model.User{}, model.ErrUnknownUser
	}
	return user, nil
}

func (u *UserStorage) SetPersona(_ context.Context, userID int64, personaName string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	user, ok := u.users[userID]
	if !ok {
		return model.ErrUnknownUser
	}
	user.Persona = personaName
	u.users[userID] = user
	return nil
}

// Count reports the number of registered users.
func (u *UserStorage) Count() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.users)
}
