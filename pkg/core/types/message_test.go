package types

import "testing"

func TestNewModelMessage(t *testing.T) {
	msg := NewModelMessage()
	if msg.ID == "" {
		t.Error("ID should be assigned")
	}
	if msg.Role != RoleModel {
		t.Errorf("Role = %v, want %v", msg.Role, RoleModel)
	}
	if !msg.Streaming {
		t.Error("new model message should be streaming")
	}
	if msg.Content != "" {
		t.Errorf("Content = %q, want empty", msg.Content)
	}
}

func TestMessage_AppendAndFinalize(t *testing.T) {
	msg := NewModelMessage()
	msg.AppendContent("Hello")
	msg.AppendContent(", world")
	msg.Finalize()

	if msg.Content != "Hello, world" {
		t.Errorf("Content = %q, want %q", msg.Content, "Hello, world")
	}
	if msg.Streaming {
		t.Error("finalized message should not be streaming")
	}
	if msg.Errored {
		t.Error("finalized message should not be errored")
	}
}

func TestMessage_Fail(t *testing.T) {
	msg := NewModelMessage()
	msg.AppendContent("partial")
	msg.Fail("The request was blocked by the content policy.")

	if !msg.Errored {
		t.Error("Fail should set the error flag")
	}
	if msg.Streaming {
		t.Error("Fail should clear the streaming flag")
	}
	if msg.Content != "The request was blocked by the content policy." {
		t.Errorf("Content = %q, want the user-facing message", msg.Content)
	}
}

func TestHasAudioAttachment(t *testing.T) {
	req := GenerationRequest{
		Mode: ModeChat,
		Attachments: []Attachment{
			{MIMEType: "image/png"},
			{MIMEType: "audio/wav"},
		},
	}
	if !req.HasAudioAttachment() {
		t.Error("expected audio attachment to be detected")
	}

	req.Attachments = req.Attachments[:1]
	if req.HasAudioAttachment() {
		t.Error("image-only request should not report audio")
	}
}

func TestGenerationConfig_WithDefaults(t *testing.T) {
	got := GenerationConfig{}.WithDefaults()
	if got.AspectRatio != "1:1" || got.ImageSize != "1K" || got.Resolution != "720p" {
		t.Errorf("WithDefaults() = %+v, want documented defaults", got)
	}

	custom := GenerationConfig{AspectRatio: "16:9", ImageSize: "2K", Resolution: "1080p"}.WithDefaults()
	if custom.AspectRatio != "16:9" || custom.ImageSize != "2K" || custom.Resolution != "1080p" {
		t.Errorf("WithDefaults() = %+v, should not override set values", custom)
	}
}
