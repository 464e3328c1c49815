// Package backend abstracts the remote generation provider. The orchestration
// layer depends on the Generator interface so tests can substitute fakes; the
// gemini implementation is the only production backend.
package backend

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

// Generator is the remote call surface the router and poller consume.
type Generator interface {
	// GenerateStream opens a streaming chat-completion call and yields
	// incremental response fragments in arrival order.
	GenerateStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]

	// Generate performs a single-shot multimodal call (image, speech).
	Generate(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

	// GenerateVideos submits an asynchronous video generation job and
	// returns its operation handle.
	GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error)

	// PollVideos re-queries a video operation by its handle.
	PollVideos(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error)
}
