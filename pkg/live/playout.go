package live

import "time"

// Clock reports the current position on the playback timeline.
type Clock interface {
	Now() time.Duration
}

// Sink accepts clips scheduled at absolute timeline positions. PlayAt must
// not block; implementations hand the clip to the audio device and return.
type Sink interface {
	PlayAt(start time.Duration, samples []float32) error
	Close() error
}

type monotonicClock struct {
	start time.Time
}

func newMonotonicClock() Clock {
	return &monotonicClock{start: time.Now()}
}

func (c *monotonicClock) Now() time.Duration {
	return time.Since(c.start)
}

// playout schedules inbound clips for gapless playback. It keeps a cursor at
// the end of the last scheduled clip: a clip that arrives while audio is
// still queued starts exactly when the previous one ends; a clip that arrives
// after the queue drained starts immediately.
//
// enqueue is only ever called from the session receive loop, so the cursor
// needs no locking.
type playout struct {
	clock      Clock
	sink       Sink
	sampleRate int
	cursor     time.Duration
}

func newPlayout(clock Clock, sink Sink, sampleRate int) *playout {
	return &playout{clock: clock, sink: sink, sampleRate: sampleRate}
}

func (p *playout) enqueue(samples []float32) error {
	if len(samples) == 0 {
		return nil
	}
	if now := p.clock.Now(); p.cursor < now {
		p.cursor = now
	}
	if err := p.sink.PlayAt(p.cursor, samples); err != nil {
		return err
	}
	p.cursor += time.Duration(len(samples)) * time.Second / time.Duration(p.sampleRate)
	return nil
}

// reset drops the cursor so the next clip starts immediately. Used when the
// server interrupts generation mid-turn.
func (p *playout) reset() {
	p.cursor = 0
}
