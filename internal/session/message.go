package session

import "fmt"

// Role identifies who produced a message. It is a closed set; code that
// dispatches on Role switches over all three constants.
type Role int

const (
	RoleSystem Role = iota
	RoleHuman
	RoleAI
)

// Label returns the role's transcript label as rendered into prompts.
// Panics on a Role value outside the defined constants; such a value
// cannot be constructed through this package's API.
func (r Role) Label() string {
	switch r {
	case RoleSystem:
		return "System"
	case RoleHuman:
		return "Human"
	case RoleAI:
		return "AI Assistant"
	}
	panic(fmt.Sprintf("session: unknown role %d", int(r)))
}

// Message is a single entry in a session's conversation history.
type Message struct {
	Role    Role
	Content string
}

// SystemMessage builds a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// HumanMessage builds a user message.
func HumanMessage(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// AIMessage builds a model message.
func AIMessage(content string) Message {
	return Message{Role: RoleAI, Content: content}
}
