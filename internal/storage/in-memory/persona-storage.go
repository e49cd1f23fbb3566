package in_memory

import (
	"context"

	"github.com/okadapy/persona-bot/internal/model"
)

// PersonaStorage holds the seeded character set. Read-only after
// construction, so no locking is needed.
type PersonaStorage struct {
	personas map[string]model.Persona
}

func NewPersonaStorage(personas []model.Persona) *PersonaStorage {
	items := make(map[string]model.Persona, len(personas))
	for _, persona := range personas {
		items[persona.Name] = persona
	}
	return &PersonaStorage{personas: items}
}

func (p *PersonaStorage) Lookup(_ context.Context, name string) (model.Persona, error) {
	persona, ok := p.personas[name]
	if !ok {
		return model.Persona{}, model.ErrUnknownPersona
	}
	return persona, nil
}
