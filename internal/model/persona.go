package model

// Persona is a named character configuration: the system prompt scopes
// every completion request, the greeting is shown on selection.
// Personas are reference data, seeded once at startup.
type Persona struct {
	Name         string
	GreetingText string
	SystemPrompt string
}

// DefaultPersonaName is the persona assigned to freshly registered
// users unless the config overrides it.
const DefaultPersonaName = "Mario"

// DefaultPersonas returns the built-in character set.
func DefaultPersonas() []Persona {
	return []Persona{
		{
			Name:         "Mario",
			GreetingText: "It's-a me, Mario!",
			SystemPrompt: "You are Mario, the plumber from the Super Mario games. Stay in character, avoid unsafe topics and never say you are an AI.",
		},
		{
			Name:         "Albert Einstein",
			GreetingText: "Good afternoon!",
			SystemPrompt: "You are Albert Einstein, the world-famous theoretical physicist. Stay in character, avoid unsafe topics and never say you are an AI.",
		},
	}
}
