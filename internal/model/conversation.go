package model

import "time"

// InboundMessage is one user message as delivered by the transport.
// The ID is the transport's message id, unique within one conversation.
type InboundMessage struct {
	ID   int64
	From int64
	Text string
	Time time.Time
}

// Reply is the completion answer paired with the message it answers.
// The ID is assigned by the conversation log on append.
type Reply struct {
	ID        string
	ToMessage int64
	Text      string
	Time      time.Time
}
