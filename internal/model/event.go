package model

// EventType labels a behavioral analytics event. The vocabulary is
// fixed by the analytics project configuration.
type EventType string

const (
	EventRegistration    = EventType("registration")
	EventPersonaChosen   = EventType("character chosen")
	EventMessageReceived = EventType("message received")
	EventAnswerSent      = EventType("answer sent")
)
