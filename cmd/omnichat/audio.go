package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/gen2brain/malgo"

	"github.com/omnichat-ai/omnichat/pkg/audio"
	"github.com/omnichat-ai/omnichat/pkg/live"
)

// micSource captures microphone audio with malgo and delivers normalized
// float frames. It implements live.CaptureSource.
type micSource struct {
	mu      sync.Mutex
	mctx    *malgo.AllocatedContext
	device  *malgo.Device
	onFrame func([]float32)
}

func newMicSource() (live.CaptureSource, error) {
	ctxConfig := malgo.ContextConfig{}
	ctxConfig.ThreadPriority = malgo.ThreadPriorityRealtime
	mctx, err := malgo.InitContext(nil, ctxConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	return &micSource{mctx: mctx}, nil
}

func (m *micSource) Start(onFrame func(samples []float32)) error {
	m.mu.Lock()
	m.onFrame = onFrame
	m.mu.Unlock()

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = live.CaptureSampleRate
	deviceConfig.PeriodSizeInMilliseconds = 20

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			samples := decodeF32(input)
			m.mu.Lock()
			fn := m.onFrame
			m.mu.Unlock()
			if fn != nil && len(samples) > 0 {
				fn(samples)
			}
		},
	}

	m.mu.Lock()
	mctx := m.mctx
	m.mu.Unlock()
	if mctx == nil {
		return fmt.Errorf("microphone already closed")
	}

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, callbacks)
	if err != nil {
		return fmt.Errorf("init microphone: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("start microphone: %w", err)
	}
	m.mu.Lock()
	if m.mctx == nil {
		// Closed while the device was being brought up.
		m.mu.Unlock()
		device.Stop()
		device.Uninit()
		return fmt.Errorf("microphone closed during start")
	}
	m.device = device
	m.mu.Unlock()
	return nil
}

func (m *micSource) Close() error {
	m.mu.Lock()
	m.onFrame = nil
	device := m.device
	mctx := m.mctx
	m.device = nil
	m.mctx = nil
	m.mu.Unlock()

	if device != nil {
		device.Stop()
		device.Uninit()
	}
	if mctx != nil {
		mctx.Uninit()
		mctx.Free()
	}
	return nil
}

func decodeF32(data []byte) []float32 {
	out := make([]float32, 0, len(data)/4)
	for i := 0; i+3 < len(data); i += 4 {
		out = append(out, math.Float32frombits(binary.LittleEndian.Uint32(data[i:])))
	}
	return out
}

// speakerSink plays scheduled clips through oto. The device queue drains
// continuously, so clips appended back to back begin exactly when the
// previous one ends; the scheduled start position is honored by the queue
// order rather than tracked explicitly. It implements live.Sink.
type speakerSink struct {
	otoCtx *oto.Context
	player *oto.Player

	mu      sync.Mutex
	cond    *sync.Cond
	buf     []byte
	playing bool
	closed  bool
}

func newSpeakerSink() (*speakerSink, error) {
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   live.PlaybackSampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
		// 4800 bytes is 100ms at 24 kHz mono s16le.
		BufferSize: 4800,
	})
	if err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	<-ready
	s := &speakerSink{otoCtx: otoCtx}
	s.cond = sync.NewCond(&s.mu)
	return s, nil
}

func (s *speakerSink) PlayAt(_ time.Duration, samples []float32) error {
	data := audio.Float32FramesToWire(samples)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("speaker closed")
	}
	s.buf = append(s.buf, data...)
	if !s.playing {
		s.playing = true
		s.player = s.otoCtx.NewPlayer(s)
		s.player.Play()
	}
	s.cond.Signal()
	return nil
}

// Read feeds oto's pull loop. Silence is returned once closed so the device
// drains gracefully.
func (s *speakerSink) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.buf) == 0 && !s.closed {
		s.cond.Wait()
	}
	if s.closed && len(s.buf) == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	n := copy(p, s.buf)
	s.buf = s.buf[n:]
	return n, nil
}

// Flush discards queued audio so playback stops promptly when the model is
// interrupted.
func (s *speakerSink) Flush() {
	s.mu.Lock()
	s.buf = s.buf[:0]
	s.mu.Unlock()
}

func (s *speakerSink) Close() error {
	s.mu.Lock()
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()
	if s.player != nil {
		s.player.Close()
	}
	return nil
}
