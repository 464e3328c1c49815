package live

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/omnichat-ai/omnichat/pkg/audio"
	"github.com/omnichat-ai/omnichat/pkg/core"
)

// Status is the externally visible lifecycle state of a voice session.
type Status string

const (
	StatusIdle         Status = "idle"
	StatusConnecting   Status = "connecting"
	StatusActive       Status = "active"
	StatusClosing      Status = "closing"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
)

// StatusUpdate is one lifecycle transition. Err is set only for StatusError.
type StatusUpdate struct {
	Status Status
	Err    error
}

// CaptureSampleRate is the outbound microphone rate in Hz.
const CaptureSampleRate = 16000

// PlaybackSampleRate is the inbound synthesized audio rate in Hz.
const PlaybackSampleRate = 24000

// SessionConfig wires a session to its transport and audio devices.
type SessionConfig struct {
	// Dial opens the bidirectional connection.
	Dial Dialer
	// Capture acquires the microphone. Acquisition failure is surfaced as a
	// permission error.
	Capture func() (CaptureSource, error)
	// Sink receives scheduled playback clips.
	Sink Sink

	Clock  Clock // defaults to a monotonic wall clock
	Logger *slog.Logger
}

// Session runs one real-time voice conversation. A session is single-use:
// Activate connects and starts both audio directions, Deactivate (or a remote
// close) tears everything down and delivers exactly one terminal update on
// Updates, after which the channel is closed.
type Session struct {
	cfg        SessionConfig
	log        *slog.Logger
	updates    chan StatusUpdate
	normalizer *core.Normalizer

	mu        sync.Mutex
	status    Status
	transport Transport
	capture   CaptureSource
	playout   *playout
	// closed is set once the terminal update has been delivered and the
	// updates channel closed. Every send and the close itself happen under
	// mu, so a send can never race the close.
	closed bool

	releaseOnce sync.Once
}

// NewSession returns an idle session. It does not touch the network or any
// audio device until Activate.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Dial == nil {
		return nil, fmt.Errorf("live: session needs a dialer")
	}
	if cfg.Capture == nil {
		return nil, fmt.Errorf("live: session needs a capture source")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("live: session needs a playback sink")
	}
	if cfg.Clock == nil {
		cfg.Clock = newMonotonicClock()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Session{
		cfg:        cfg,
		log:        log,
		updates:    make(chan StatusUpdate, 8),
		normalizer: core.NewNormalizer(),
		status:     StatusIdle,
	}, nil
}

// Updates delivers lifecycle transitions. The channel is closed after the
// terminal update.
func (s *Session) Updates() <-chan StatusUpdate {
	return s.updates
}

// Status reports the current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Activate acquires the microphone, connects, and starts streaming in both
// directions. On failure the session lands in the error state and the
// terminal update carries the same error that is returned.
func (s *Session) Activate(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusIdle {
		status := s.status
		s.mu.Unlock()
		return fmt.Errorf("live: activate in state %q", status)
	}
	s.status = StatusConnecting
	s.mu.Unlock()
	s.emit(StatusUpdate{Status: StatusConnecting})

	capture, err := s.cfg.Capture()
	if err != nil {
		werr := core.NewPermissionError("microphone access denied: " + err.Error())
		s.fail(werr)
		return werr
	}

	transport, err := s.cfg.Dial(ctx)
	if err != nil {
		capture.Close()
		werr := s.normalizer.Normalize(core.NewTransportError("live connect", err))
		s.fail(werr)
		return werr
	}

	s.mu.Lock()
	if s.status != StatusConnecting {
		// Deactivated while the dial was in flight. The session already
		// reported its terminal state; the freshly acquired resources are
		// ours to dispose of.
		s.mu.Unlock()
		capture.Close()
		transport.Close()
		return fmt.Errorf("live: session closed during activation")
	}
	s.capture = capture
	s.transport = transport
	s.playout = newPlayout(s.cfg.Clock, s.cfg.Sink, PlaybackSampleRate)
	s.status = StatusActive
	s.mu.Unlock()
	s.emit(StatusUpdate{Status: StatusActive})

	go s.receiveLoop(transport)

	if err := capture.Start(s.onCaptureFrame); err != nil {
		werr := core.NewPermissionError("microphone start failed: " + err.Error())
		s.fail(werr)
		s.release()
		return werr
	}
	s.log.Debug("live session active")
	return nil
}

// Deactivate ends the session. All audio resources and the connection are
// released before it returns.
func (s *Session) Deactivate() {
	s.mu.Lock()
	if s.status != StatusConnecting && s.status != StatusActive {
		s.mu.Unlock()
		return
	}
	s.status = StatusClosing
	s.emitLocked(StatusUpdate{Status: StatusClosing})
	s.mu.Unlock()

	s.release()
	s.finish(nil)
}

// onCaptureFrame encodes one microphone frame and ships it out. Frames are
// delivered sequentially by the capture source, so outbound order matches
// capture order.
func (s *Session) onCaptureFrame(samples []float32) {
	s.mu.Lock()
	transport := s.transport
	active := s.status == StatusActive
	s.mu.Unlock()
	if !active || transport == nil {
		return
	}
	pcm := audio.Float32FramesToWire(samples)
	if err := transport.SendAudioFrame(pcm, CaptureSampleRate); err != nil {
		s.log.Debug("drop outbound frame", "error", err)
	}
}

func (s *Session) receiveLoop(transport Transport) {
	for msg := range transport.Messages() {
		switch m := msg.(type) {
		case AudioMessage:
			samples := audio.WireToFloat32Frames(m.PCM)
			if err := s.playout.enqueue(samples); err != nil {
				s.log.Debug("playback enqueue failed", "error", err)
			}
		case InterruptedMessage:
			s.playout.reset()
			// Sinks holding queued device audio drop it so the next turn
			// starts clean.
			if f, ok := s.cfg.Sink.(interface{ Flush() }); ok {
				f.Flush()
			}
			s.log.Debug("generation interrupted")
		case TurnCompleteMessage:
			s.log.Debug("model turn complete")
		}
	}

	err := transport.Err()
	s.release()
	if err != nil {
		s.fail(s.normalizer.Normalize(err))
		return
	}
	s.finish(nil)
}

// release tears down owned resources exactly once. Closing the transport
// unblocks the receive loop, which observes no error for a local close.
func (s *Session) release() {
	s.releaseOnce.Do(func() {
		s.mu.Lock()
		capture := s.capture
		transport := s.transport
		s.mu.Unlock()
		if capture != nil {
			capture.Close()
		}
		if transport != nil {
			transport.Close()
		}
		if err := s.cfg.Sink.Close(); err != nil {
			s.log.Debug("close playback sink", "error", err)
		}
	})
}

// finish records the clean terminal state and notifies once.
func (s *Session) finish(err error) {
	s.terminal(StatusIdle, StatusUpdate{Status: StatusDisconnected, Err: err})
}

// fail records the error terminal state and notifies once.
func (s *Session) fail(err error) {
	s.terminal(StatusError, StatusUpdate{Status: StatusError, Err: err})
}

// terminal delivers the session's single terminal update and closes the
// updates channel. A terminal state already recorded wins; later calls do
// not overwrite it.
func (s *Session) terminal(status Status, u StatusUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.status = status
	s.emitLocked(u)
	s.closed = true
	close(s.updates)
}

func (s *Session) emit(u StatusUpdate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitLocked(u)
}

func (s *Session) emitLocked(u StatusUpdate) {
	if s.closed {
		return
	}
	select {
	case s.updates <- u:
	default:
		s.log.Debug("drop status update", "status", u.Status)
	}
}
