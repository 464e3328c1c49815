package live

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultEndpoint is the bidirectional generation websocket endpoint.
const DefaultEndpoint = "wss://generativelanguage.googleapis.com/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"

// DefaultLiveModel is the native-audio dialogue model used for voice sessions.
const DefaultLiveModel = "gemini-2.5-flash-native-audio-preview-09-2025"

// DefaultVoice names the prebuilt synthesis voice.
const DefaultVoice = "Zephyr"

// Transport is a connected bidirectional session. Outbound audio goes through
// SendAudioFrame; inbound events arrive on Messages in wire order. Messages is
// closed when the connection ends; Err reports the terminal failure, if any.
type Transport interface {
	SendAudioFrame(pcm []byte, sampleRate int) error
	Messages() <-chan ServerMessage
	Close() error
	Err() error
}

// Dialer opens a Transport. Sessions depend on this rather than on a concrete
// websocket so tests can substitute a scripted connection.
type Dialer func(ctx context.Context) (Transport, error)

// TransportConfig configures a live websocket connection.
type TransportConfig struct {
	APIKey   string
	Model    string // defaults to DefaultLiveModel
	Voice    string // defaults to DefaultVoice
	Endpoint string // defaults to DefaultEndpoint
}

type wsTransport struct {
	conn     *websocket.Conn
	messages chan ServerMessage
	done     chan struct{}

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool

	errMu sync.Mutex
	err   error
}

// Dial connects to the live endpoint, performs session setup and waits for
// the server acknowledgment before returning. The returned transport owns the
// connection and runs its own read loop.
func Dial(ctx context.Context, cfg TransportConfig) (Transport, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("live: missing API key")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	model := cfg.Model
	if model == "" {
		model = DefaultLiveModel
	}
	voice := cfg.Voice
	if voice == "" {
		voice = DefaultVoice
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("live: parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", cfg.APIKey)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("live: dial: %w", err)
	}

	t := &wsTransport{
		conn:     conn,
		messages: make(chan ServerMessage, 64),
		done:     make(chan struct{}),
	}

	setup := clientSetup{Setup: setupPayload{
		Model: "models/" + model,
		GenerationConfig: &setupGeneration{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: &voiceConfig{
					PrebuiltVoiceConfig: &prebuiltVoice{VoiceName: voice},
				},
			},
		},
	}}
	if err := t.writeJSON(setup); err != nil {
		conn.Close()
		return nil, fmt.Errorf("live: send setup: %w", err)
	}

	// The first server frame must acknowledge setup before any audio flows.
	if err := t.awaitSetup(ctx); err != nil {
		conn.Close()
		return nil, err
	}

	go t.readLoop()
	return t, nil
}

func (t *wsTransport) awaitSetup(ctx context.Context) error {
	if deadline, ok := ctx.Deadline(); ok {
		t.conn.SetReadDeadline(deadline)
		defer t.conn.SetReadDeadline(time.Time{})
	}
	_, data, err := t.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("live: await setup: %w", err)
	}
	msgs, err := decodeServerFrame(data)
	if err != nil {
		return fmt.Errorf("live: await setup: %w", err)
	}
	for _, msg := range msgs {
		if _, ok := msg.(SetupCompleteMessage); ok {
			return nil
		}
	}
	return fmt.Errorf("live: server did not acknowledge setup")
}

func (t *wsTransport) SendAudioFrame(pcm []byte, sampleRate int) error {
	if t.closed.Load() {
		return fmt.Errorf("live: transport closed")
	}
	frame := clientRealtimeInput{RealtimeInput: realtimeInput{
		MediaChunks: []mediaChunk{{
			MIMEType: fmt.Sprintf("audio/pcm;rate=%d", sampleRate),
			Data:     base64.StdEncoding.EncodeToString(pcm),
		}},
	}}
	if err := t.writeJSON(frame); err != nil {
		return fmt.Errorf("live: send audio frame: %w", err)
	}
	return nil
}

func (t *wsTransport) writeJSON(v any) error {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	return t.conn.WriteJSON(v)
}

func (t *wsTransport) Messages() <-chan ServerMessage {
	return t.messages
}

func (t *wsTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.closed.Store(true)
		close(t.done)
		t.writeMu.Lock()
		t.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		t.writeMu.Unlock()
		err = t.conn.Close()
	})
	return err
}

func (t *wsTransport) Err() error {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	return t.err
}

func (t *wsTransport) setErr(err error) {
	t.errMu.Lock()
	defer t.errMu.Unlock()
	if t.err == nil {
		t.err = err
	}
}

func (t *wsTransport) readLoop() {
	defer close(t.messages)
	for {
		_, data, err := t.conn.ReadMessage()
		if err != nil {
			// A locally initiated close and a clean server goodbye both end
			// the session without an error.
			if t.closed.Load() ||
				websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			t.setErr(fmt.Errorf("live: read: %w", err))
			return
		}
		msgs, err := decodeServerFrame(data)
		if err != nil {
			t.setErr(err)
			return
		}
		for _, msg := range msgs {
			select {
			case t.messages <- msg:
			case <-t.done:
				return
			}
		}
	}
}
