package models

// Message is a single entry of the conversation.
// Sources is nil when the backend returned none.
type Message struct {
	Text       string
	IsFromUser bool
	Sources    []string
}

// UserMessage builds a user-authored message.
func UserMessage(text string) Message {
	return Message{Text: text, IsFromUser: true}
}

// AssistantMessage builds an assistant-authored message.
func AssistantMessage(text string, sources []string) Message {
	return Message{Text: text, Sources: sources}
}

// Role returns RoleUser or RoleAssistant.
func (m Message) Role() string {
	if m.IsFromUser {
		return RoleUser
	}
	return RoleAssistant
}

// HasSources reports whether the message carries at least one source.
func (m Message) HasSources() bool {
	return len(m.Sources) > 0
}
