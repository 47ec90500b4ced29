package pagemark

import "context"

// Role identifies the author of a chat message.
type Role string

// Transcript roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a chat transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Validate returns an error if the message contains invalid fields.
func (m Message) Validate() error {
	if m.Role != RoleUser && m.Role != RoleAssistant {
		return Errorf(EINVALID, "invalid message role %q", m.Role)
	}
	if m.Content == "" {
		return Errorf(EINVALID, "message content required")
	}
	return nil
}

// ValidateTranscript checks that a transcript is non-empty, contains only
// valid messages, and ends with a user message awaiting a reply.
func ValidateTranscript(transcript []Message) error {
	if len(transcript) == 0 {
		return Errorf(EINVALID, "transcript required")
	}
	for _, m := range transcript {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	if transcript[len(transcript)-1].Role != RoleUser {
		return Errorf(EINVALID, "transcript must end with a user message")
	}
	return nil
}

// ChatAgent answers questions about fetched content. The context document,
// when non-empty, is provided to the model alongside the transcript.
type ChatAgent interface {
	Reply(ctx context.Context, transcript []Message, contextDoc string) (string, error)
}
