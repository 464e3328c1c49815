// Package types defines the request, message, and configuration model shared
// by the generation router and the surrounding chat shell.
package types

// Mode selects the generation pathway for one request.
type Mode string

const (
	ModeChat     Mode = "chat"
	ModeThinking Mode = "thinking"
	ModeMaps     Mode = "maps"
	ModeFast     Mode = "fast"
	ModeImage    Mode = "image"
	ModeVideo    Mode = "video"
	ModeTTS      Mode = "tts"
	ModeLive     Mode = "live"
)

// Valid reports whether m names a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeChat, ModeThinking, ModeMaps, ModeFast, ModeImage, ModeVideo, ModeTTS, ModeLive:
		return true
	}
	return false
}

// Attachment is a user-supplied media payload. Data holds the raw decoded
// bytes; transport-level base64 is applied at the wire, never stored here.
type Attachment struct {
	MIMEType string
	Data     []byte
	Name     string
}

// GenerationConfig is a fixed options record consumed read-only by the
// router. Zero values fall back to the documented defaults.
type GenerationConfig struct {
	// AspectRatio is a free-form ratio string, for example "1:1" or "16:9".
	AspectRatio string
	// ImageSize is a quality tier, "1K" or "2K".
	ImageSize string
	// Resolution is the video quality tier, for example "720p".
	Resolution string
}

const (
	DefaultAspectRatio = "1:1"
	DefaultImageSize   = "1K"
	DefaultResolution  = "720p"
)

// WithDefaults returns a copy with unset options replaced by defaults.
func (c GenerationConfig) WithDefaults() GenerationConfig {
	if c.AspectRatio == "" {
		c.AspectRatio = DefaultAspectRatio
	}
	if c.ImageSize == "" {
		c.ImageSize = DefaultImageSize
	}
	if c.Resolution == "" {
		c.Resolution = DefaultResolution
	}
	return c
}

// GenerationRequest is one user turn entering the router. Mode is immutable
// for the lifetime of the request; History excludes the in-flight turn.
type GenerationRequest struct {
	Mode        Mode
	Prompt      string
	Attachments []Attachment
	Config      GenerationConfig
	History     []Message
}

// HasAudioAttachment reports whether any attachment carries an audio MIME
// type. The router uses this to override model selection.
func (r *GenerationRequest) HasAudioAttachment() bool {
	for _, a := range r.Attachments {
		if len(a.MIMEType) >= 6 && a.MIMEType[:6] == "audio/" {
			return true
		}
	}
	return false
}

// MediaRef references generated media: either inline bytes or a remote URI.
type MediaRef struct {
	MIMEType string
	Data     []byte
	URI      string
}

// Inline reports whether the reference carries its payload inline.
func (m *MediaRef) Inline() bool {
	return m != nil && len(m.Data) > 0
}
