package model

import "time"

// ExternalUser is the identity the messaging transport hands us on
// every update. The numeric ID belongs to the identity provider.
type ExternalUser struct {
	ID       int64
	Username string
	Name     string
	Surname  string
}

// User is the registered record kept by the user directory. Identity
// fields are written once on registration; only Persona is mutated
// afterwards.
type User struct {
	ID           int64
	Username     string
	Name         string
	Surname      string
	Persona      string
	RegisteredAt time.Time
}
