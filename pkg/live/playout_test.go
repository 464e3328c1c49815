package live

import (
	"testing"
	"time"
)

type fakeClock struct {
	now time.Duration
}

func (c *fakeClock) Now() time.Duration { return c.now }

type scheduledClip struct {
	start   time.Duration
	samples []float32
}

type recordingSink struct {
	clips  []scheduledClip
	closed bool
}

func (s *recordingSink) PlayAt(start time.Duration, samples []float32) error {
	s.clips = append(s.clips, scheduledClip{start: start, samples: samples})
	return nil
}

func (s *recordingSink) Close() error {
	s.closed = true
	return nil
}

func TestPlayout_BackToBackClips(t *testing.T) {
	clock := &fakeClock{}
	sink := &recordingSink{}
	p := newPlayout(clock, sink, PlaybackSampleRate)

	// 24000 samples at 24 kHz is exactly one second.
	first := make([]float32, 24000)
	second := make([]float32, 12000)
	if err := p.enqueue(first); err != nil {
		t.Fatal(err)
	}
	if err := p.enqueue(second); err != nil {
		t.Fatal(err)
	}

	if len(sink.clips) != 2 {
		t.Fatalf("clips = %d, want 2", len(sink.clips))
	}
	if sink.clips[0].start != 0 {
		t.Errorf("first start = %v, want 0", sink.clips[0].start)
	}
	want := sink.clips[0].start + time.Second
	if sink.clips[1].start != want {
		t.Errorf("second start = %v, want %v", sink.clips[1].start, want)
	}
}

func TestPlayout_UnderrunRestartsAtNow(t *testing.T) {
	clock := &fakeClock{}
	sink := &recordingSink{}
	p := newPlayout(clock, sink, PlaybackSampleRate)

	if err := p.enqueue(make([]float32, 2400)); err != nil { // 100ms
		t.Fatal(err)
	}

	// The queue drained 400ms ago; the next clip must not be scheduled in
	// the past.
	clock.now = 500 * time.Millisecond
	if err := p.enqueue(make([]float32, 2400)); err != nil {
		t.Fatal(err)
	}

	if got := sink.clips[1].start; got != 500*time.Millisecond {
		t.Errorf("start after underrun = %v, want 500ms", got)
	}
	// And the clip after that chains off the restarted cursor.
	if err := p.enqueue(make([]float32, 2400)); err != nil {
		t.Fatal(err)
	}
	if got := sink.clips[2].start; got != 600*time.Millisecond {
		t.Errorf("chained start = %v, want 600ms", got)
	}
}

func TestPlayout_EmptyClipIgnored(t *testing.T) {
	sink := &recordingSink{}
	p := newPlayout(&fakeClock{}, sink, PlaybackSampleRate)
	if err := p.enqueue(nil); err != nil {
		t.Fatal(err)
	}
	if len(sink.clips) != 0 {
		t.Errorf("clips = %d, want 0", len(sink.clips))
	}
}
