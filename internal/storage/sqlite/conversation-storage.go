package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/okadapy/persona-bot/internal/model"
)

func (s *Storage) AppendMessage(ctx context.Context, msg model.InboundMessage) error {
	_, err := s.db.ExecContext(
		ctx,
		"INSERT INTO messages (id, from_user, text, time) VALUES (?, ?, ?, ?)",
		msg.ID, msg.From, msg.Text, msg.Time,
	)
	if err != nil {
		return &model.PersistenceError{Op: "append message", Err: err}
	}
	return nil
}

func (s *Storage) AppendReply(ctx context.Context, reply model.Reply) error {
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}
	if reply.Time.IsZero() {
		reply.Time = time.Now()
	}
	_, err := s.db.ExecContext(
		ctx,
		"INSERT INTO replies (id, to_message, text, time) VALUES (?, ?, ?, ?)",
		reply.ID, reply.ToMessage, reply.Text, reply.Time,
	)
	if err != nil {
		return &model.PersistenceError{Op: "append reply", Err: err}
	}
	return nil
}
