// Package llm holds the provider-agnostic chat data model shared by every
// backend in pkg/provider and by the conversation buffer in pkg/tui.
package llm

// Role enumerates the speaker of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single turn in a conversation. Content is stored as an array
// of ContentBlocks so a message can carry text alongside images without a
// provider-specific shape leaking into the conversation buffer.
type Message struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is one piece of content within a Message. Type determines
// which other fields are populated.
type ContentBlock struct {
	Type string `json:"type"` // "text" or "image"

	Text string `json:"text,omitempty"`

	ImageBase64 string `json:"image_base64,omitempty"`
	MediaType   string `json:"media_type,omitempty"`
}

// NewTextMessage builds a simple text-only message.
func NewTextMessage(role Role, text string) Message {
	return Message{
		Role:    role,
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

// Text concatenates every text block in the message. Most messages in loom
// are text-only, so this is the common accessor.
func (m Message) Text() string {
	var out string
	for _, block := range m.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out
}

// Images returns the base64 image payloads attached to the message, if any.
func (m Message) Images() []string {
	var out []string
	for _, block := range m.Content {
		if block.Type == "image" && block.ImageBase64 != "" {
			out = append(out, block.ImageBase64)
		}
	}
	return out
}
