package orchestrate

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/omnichat-ai/omnichat/pkg/backend"
	"github.com/omnichat-ai/omnichat/pkg/core"
	"github.com/omnichat-ai/omnichat/pkg/core/types"
)

// DefaultPollInterval is the fixed wait between video operation polls.
const DefaultPollInterval = 5 * time.Second

// Poller waits on asynchronous video generation jobs. There is no backoff
// and no retry cap: the wait is bounded only by ctx.
type Poller struct {
	gen      backend.Generator
	interval time.Duration
	log      *slog.Logger
}

// NewPoller constructs a Poller over a backend.
func NewPoller(gen backend.Generator, opts ...PollerOption) *Poller {
	p := &Poller{
		gen:      gen,
		interval: DefaultPollInterval,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollInterval overrides the fixed poll interval.
func WithPollInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithPollLogger sets the poller's logger.
func WithPollLogger(log *slog.Logger) PollerOption {
	return func(p *Poller) { p.log = log }
}

// Await re-queries the operation at the fixed interval until it reports
// done, then extracts the first generated video. The held operation state is
// replaced by each poll response.
func (p *Poller) Await(ctx context.Context, op *genai.GenerateVideosOperation) (*types.MediaRef, error) {
	if op == nil {
		return nil, core.NewMissingResultError("video generation returned no operation")
	}

	polls := 0
	for !op.Done {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.interval):
		}

		next, err := p.gen.PollVideos(ctx, op)
		if err != nil {
			return nil, err
		}
		op = next
		polls++
		p.log.Debug("polled video operation", "operation", op.Name, "polls", polls, "done", op.Done)
	}

	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 {
		return nil, core.NewMissingResultError("video operation finished with no video")
	}
	video := op.Response.GeneratedVideos[0].Video
	if video == nil {
		return nil, core.NewMissingResultError("video operation finished with no video")
	}

	ref := &types.MediaRef{
		MIMEType: video.MIMEType,
		Data:     video.VideoBytes,
		URI:      video.URI,
	}
	if ref.MIMEType == "" {
		ref.MIMEType = "video/mp4"
	}
	return ref, nil
}
