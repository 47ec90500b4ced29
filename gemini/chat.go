package gemini

import (
	"context"
	"fmt"

	"github.com/pagemark/pagemark"
	"google.golang.org/genai"
)

// Ensure ChatAgent implements pagemark.ChatAgent at compile time.
var _ pagemark.ChatAgent = (*ChatAgent)(nil)

// ChatAgent implements pagemark.ChatAgent using Google Gemini. It answers
// questions grounded in a fetched page's content when one is provided.
type ChatAgent struct {
	client *genai.Client
	model  string
}

// ChatOption configures a ChatAgent.
type ChatOption func(*ChatAgent)

// WithChatModel overrides the Gemini model.
func WithChatModel(model string) ChatOption {
	return func(a *ChatAgent) {
		a.model = model
	}
}

// NewChatAgent creates a new ChatAgent.
func NewChatAgent(client *genai.Client, opts ...ChatOption) *ChatAgent {
	a := &ChatAgent{client: client, model: DefaultModel}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Reply answers the latest user message in the transcript. When contextDoc
// is non-empty the answer is grounded in it.
func (a *ChatAgent) Reply(ctx context.Context, transcript []pagemark.Message, contextDoc string) (string, error) {
	if err := pagemark.ValidateTranscript(transcript); err != nil {
		return "", err
	}

	contents := BuildChatContents(transcript)
	config := BuildChatConfig(contextDoc)

	result, err := a.client.Models.GenerateContent(ctx, a.model, contents, config)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", pagemark.Errorf(pagemark.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildChatContents converts a transcript into Gemini contents. Assistant
// turns map to the "model" role, everything else to "user".
func BuildChatContents(transcript []pagemark.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(transcript))
	for _, msg := range transcript {
		role := "user"
		if msg.Role == pagemark.RoleAssistant {
			role = "model"
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, genai.Role(role)))
	}
	return contents
}

// BuildChatConfig returns the GenerateContentConfig for a chat call. The
// context document, when present, is embedded in the system instruction so
// it applies to the whole conversation rather than one turn.
func BuildChatConfig(contextDoc string) *genai.GenerateContentConfig {
	temp := float32(0.4)

	instruction := "You are a helpful assistant answering questions about web pages the user has fetched. If no page content is available, say so rather than guessing."
	if contextDoc != "" {
		instruction = fmt.Sprintf(
			"You are a helpful assistant answering questions about a fetched web page. Answer based only on the page content provided below. If the answer is not in the page content, say so.\n\n<page_content>\n%s\n</page_content>",
			contextDoc,
		)
	}

	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: instruction}},
		},
		Temperature: &temp,
	}
}
