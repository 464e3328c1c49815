// Package orchestrate routes generation requests to the correct pathway:
// streaming chat, single-shot image or speech, or polled video generation.
package orchestrate

import (
	"google.golang.org/genai"

	"github.com/omnichat-ai/omnichat/pkg/core/types"
)

// Profile is a declarative bundle of backend selection and capability
// configuration for a generation mode.
type Profile struct {
	Name  string
	Model string
	// System is an optional system instruction attached to every call.
	System string
	// ThinkingBudget, when positive, enables an extended internal-reasoning
	// token budget.
	ThinkingBudget int32
	// MapsGrounding attaches the location-grounding capability.
	MapsGrounding bool
}

// Streaming chat profiles, keyed by mode. Single-shot pathways (image,
// video, tts) select models directly and do not appear here.
var chatProfiles = map[types.Mode]Profile{
	types.ModeChat: {
		Name:  "chat",
		Model: "gemini-2.5-flash",
	},
	types.ModeThinking: {
		Name:           "thinking",
		Model:          "gemini-2.5-pro",
		ThinkingBudget: 32768,
	},
	types.ModeMaps: {
		Name:          "maps",
		Model:         "gemini-2.5-flash",
		System:        "Ground answers about places, directions, and local information in map data.",
		MapsGrounding: true,
	},
	types.ModeFast: {
		Name:  "fast",
		Model: "gemini-2.5-flash-lite",
	},
}

// audioProfile is the override applied when a request carries an audio
// attachment, regardless of the declared mode.
var audioProfile = Profile{
	Name:  "audio",
	Model: "gemini-2.5-flash",
}

const (
	imageModel = "gemini-2.5-flash-image"
	videoModel = "veo-3.0-fast-generate-001"
	ttsModel   = "gemini-2.5-flash-preview-tts"

	// ttsVoice is the fixed voice identity for speech synthesis.
	ttsVoice = "Zephyr"
)

// profileFor resolves the streaming profile for a request: a table lookup by
// mode, then the audio-capability override when an audio attachment is
// present.
func profileFor(req *types.GenerationRequest) (Profile, bool) {
	p, ok := chatProfiles[req.Mode]
	if !ok {
		return Profile{}, false
	}
	if req.HasAudioAttachment() {
		return audioProfile, true
	}
	return p, true
}

// generateConfig translates a profile into the backend capability config.
func (p Profile) generateConfig() *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if p.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: p.System}},
		}
	}
	if p.ThinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(p.ThinkingBudget),
		}
	}
	if p.MapsGrounding {
		cfg.Tools = []*genai.Tool{{GoogleMaps: &genai.GoogleMaps{}}}
	}
	return cfg
}
