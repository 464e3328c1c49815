package live

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Wire frames for the bidirectional generation websocket. Client frames are
// JSON objects keyed by payload kind; server frames arrive the same way.

type clientSetup struct {
	Setup setupPayload `json:"setup"`
}

type setupPayload struct {
	Model            string           `json:"model"`
	GenerationConfig *setupGeneration `json:"generationConfig,omitempty"`
}

type setupGeneration struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig *voiceConfig `json:"voiceConfig,omitempty"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig *prebuiltVoice `json:"prebuiltVoiceConfig,omitempty"`
}

type prebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type clientRealtimeInput struct {
	RealtimeInput realtimeInput `json:"realtimeInput"`
}

type realtimeInput struct {
	MediaChunks []mediaChunk `json:"mediaChunks"`
}

type mediaChunk struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type serverFrame struct {
	SetupComplete *struct{}      `json:"setupComplete,omitempty"`
	ServerContent *serverContent `json:"serverContent,omitempty"`
}

type serverContent struct {
	ModelTurn    *serverTurn `json:"modelTurn,omitempty"`
	TurnComplete bool        `json:"turnComplete,omitempty"`
	Interrupted  bool        `json:"interrupted,omitempty"`
}

type serverTurn struct {
	Parts []serverPart `json:"parts"`
}

type serverPart struct {
	InlineData *inlineBlob `json:"inlineData,omitempty"`
}

type inlineBlob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// ServerMessage is one decoded inbound event.
type ServerMessage interface {
	serverMessageType() string
}

// SetupCompleteMessage acknowledges the session setup.
type SetupCompleteMessage struct{}

func (SetupCompleteMessage) serverMessageType() string { return "setup_complete" }

// AudioMessage carries one inbound synthesized audio chunk, already decoded
// from its transport encoding to raw s16le sample bytes.
type AudioMessage struct {
	MIMEType string
	PCM      []byte
}

func (AudioMessage) serverMessageType() string { return "audio" }

// TurnCompleteMessage marks the end of a model turn.
type TurnCompleteMessage struct{}

func (TurnCompleteMessage) serverMessageType() string { return "turn_complete" }

// InterruptedMessage signals that generation was cut off by new user speech.
type InterruptedMessage struct{}

func (InterruptedMessage) serverMessageType() string { return "interrupted" }

// decodeServerFrame decodes one inbound text frame into zero or more
// messages, preserving part order.
func decodeServerFrame(data []byte) ([]ServerMessage, error) {
	var frame serverFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("decode server frame: %w", err)
	}

	var out []ServerMessage
	if frame.SetupComplete != nil {
		out = append(out, SetupCompleteMessage{})
	}
	if sc := frame.ServerContent; sc != nil {
		if sc.Interrupted {
			out = append(out, InterruptedMessage{})
		}
		if sc.ModelTurn != nil {
			for _, part := range sc.ModelTurn.Parts {
				if part.InlineData == nil {
					continue
				}
				pcm, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("decode inbound audio chunk: %w", err)
				}
				out = append(out, AudioMessage{
					MIMEType: part.InlineData.MIMEType,
					PCM:      pcm,
				})
			}
		}
		if sc.TurnComplete {
			out = append(out, TurnCompleteMessage{})
		}
	}
	return out, nil
}
