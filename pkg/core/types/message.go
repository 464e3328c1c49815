package types

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn in a chat session. The session layer owns message
// storage; the generation core only mutates messages through the methods
// below while a request is in flight.
type Message struct {
	ID        string
	Role      Role
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Streaming is set while a model response is still being produced.
	Streaming bool
	// Errored marks a response that terminated with a failure; Content then
	// holds the normalized user-facing message.
	Errored bool

	Attachments []Attachment
	Media       *MediaRef
	Audio       *MediaRef
}

// NewUserMessage creates a user turn from a submitted prompt.
func NewUserMessage(content string, attachments []Attachment) Message {
	now := time.Now()
	return Message{
		ID:          uuid.NewString(),
		Role:        RoleUser,
		Content:     content,
		CreatedAt:   now,
		UpdatedAt:   now,
		Attachments: attachments,
	}
}

// NewModelMessage creates the empty streaming placeholder for a response.
func NewModelMessage() Message {
	now := time.Now()
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleModel,
		CreatedAt: now,
		UpdatedAt: now,
		Streaming: true,
	}
}

// AppendContent appends one streamed fragment.
func (m *Message) AppendContent(fragment string) {
	m.Content += fragment
	m.UpdatedAt = time.Now()
}

// SetMedia assigns a single-shot generation result.
func (m *Message) SetMedia(ref *MediaRef) {
	m.Media = ref
	m.UpdatedAt = time.Now()
}

// SetAudio assigns a synthesized speech result.
func (m *Message) SetAudio(ref *MediaRef) {
	m.Audio = ref
	m.UpdatedAt = time.Now()
}

// Finalize clears the streaming flag on completion or cancellation.
func (m *Message) Finalize() {
	m.Streaming = false
	m.UpdatedAt = time.Now()
}

// Fail finalizes the message with a user-facing error.
func (m *Message) Fail(userMessage string) {
	m.Content = userMessage
	m.Errored = true
	m.Streaming = false
	m.UpdatedAt = time.Now()
}
