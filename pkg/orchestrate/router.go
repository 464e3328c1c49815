package orchestrate

import (
	"context"
	"log/slog"

	"google.golang.org/genai"

	"github.com/omnichat-ai/omnichat/pkg/audio"
	"github.com/omnichat-ai/omnichat/pkg/backend"
	"github.com/omnichat-ai/omnichat/pkg/core"
	"github.com/omnichat-ai/omnichat/pkg/core/types"
)

// Result is the outcome of one dispatched request. Streaming pathways fill
// Text (delivered incrementally through the chunk callback first);
// single-shot pathways fill Media or Audio.
type Result struct {
	Text  string
	Media *types.MediaRef
	Audio *types.MediaRef
}

// Router dispatches generation requests. It holds no per-request state;
// every outcome is returned or streamed through callbacks.
type Router struct {
	gen        backend.Generator
	poller     *Poller
	normalizer *core.Normalizer
	log        *slog.Logger
	voice      string
}

// NewRouter constructs a Router over a backend.
func NewRouter(gen backend.Generator, opts ...RouterOption) *Router {
	r := &Router{
		gen:        gen,
		normalizer: core.NewNormalizer(),
		log:        slog.Default(),
		voice:      ttsVoice,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.poller == nil {
		r.poller = NewPoller(gen, WithPollLogger(r.log))
	}
	return r
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithLogger sets the router's logger.
func WithLogger(log *slog.Logger) RouterOption {
	return func(r *Router) { r.log = log }
}

// WithPoller sets the video operation poller.
func WithPoller(p *Poller) RouterOption {
	return func(r *Router) { r.poller = p }
}

// WithNormalizer sets the error normalizer.
func WithNormalizer(n *core.Normalizer) RouterOption {
	return func(r *Router) { r.normalizer = n }
}

// WithVoice overrides the prebuilt voice used for speech synthesis.
func WithVoice(voice string) RouterOption {
	return func(r *Router) {
		if voice != "" {
			r.voice = voice
		}
	}
}

// Dispatch routes one request to its generation pathway. onChunk receives
// streamed text fragments in arrival order for chat-like modes; it may be
// nil for single-shot modes. Cancelling ctx during a streaming call is a
// normal early termination, not an error.
func (r *Router) Dispatch(ctx context.Context, req *types.GenerationRequest, onChunk func(string)) (*Result, error) {
	if req == nil || !req.Mode.Valid() {
		return nil, core.NewAPIError("unknown generation mode")
	}

	switch req.Mode {
	case types.ModeImage:
		return r.dispatchImage(ctx, req)
	case types.ModeVideo:
		return r.dispatchVideo(ctx, req)
	case types.ModeTTS:
		return r.dispatchSpeech(ctx, req)
	case types.ModeLive:
		return nil, core.NewAPIError("live mode is a session, not a request; use the live package")
	default:
		return r.dispatchChat(ctx, req, onChunk)
	}
}

func (r *Router) dispatchChat(ctx context.Context, req *types.GenerationRequest, onChunk func(string)) (*Result, error) {
	profile, ok := profileFor(req)
	if !ok {
		return nil, core.NewAPIError("no profile for mode " + string(req.Mode))
	}
	r.log.Debug("dispatching chat request",
		"profile", profile.Name, "model", profile.Model, "history", len(req.History))

	contents := contentsFromHistory(req.History)
	contents = append(contents, userContent(req))

	text, err := consumeStream(ctx, r.gen, profile, contents, onChunk)
	if err != nil {
		return nil, r.normalizer.Normalize(err)
	}
	return &Result{Text: text}, nil
}

func (r *Router) dispatchImage(ctx context.Context, req *types.GenerationRequest) (*Result, error) {
	cfg := req.Config.WithDefaults()
	genCfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: cfg.AspectRatio,
			ImageSize:   cfg.ImageSize,
		},
	}

	pathway := "generate"
	if len(req.Attachments) > 0 {
		pathway = "edit"
	}
	r.log.Debug("dispatching image request", "pathway", pathway, "aspect", cfg.AspectRatio)

	resp, err := r.gen.Generate(ctx, imageModel, []*genai.Content{userContent(req)}, genCfg)
	if err != nil {
		return nil, r.normalizer.Normalize(err)
	}
	ref := inlineMedia(resp, "image/")
	if ref == nil {
		return nil, core.NewMissingResultError("the response contained no image")
	}
	return &Result{Media: ref}, nil
}

func (r *Router) dispatchVideo(ctx context.Context, req *types.GenerationRequest) (*Result, error) {
	cfg := req.Config.WithDefaults()
	genCfg := &genai.GenerateVideosConfig{
		AspectRatio: cfg.AspectRatio,
		Resolution:  cfg.Resolution,
	}

	var seed *genai.Image
	if len(req.Attachments) > 0 {
		seed = &genai.Image{
			ImageBytes: req.Attachments[0].Data,
			MIMEType:   req.Attachments[0].MIMEType,
		}
	}
	r.log.Debug("submitting video generation", "aspect", cfg.AspectRatio, "resolution", cfg.Resolution, "seeded", seed != nil)

	op, err := r.gen.GenerateVideos(ctx, videoModel, req.Prompt, seed, genCfg)
	if err != nil {
		return nil, r.normalizer.Normalize(err)
	}

	ref, err := r.poller.Await(ctx, op)
	if err != nil {
		return nil, r.normalizer.Normalize(err)
	}
	return &Result{Media: ref}, nil
}

func (r *Router) dispatchSpeech(ctx context.Context, req *types.GenerationRequest) (*Result, error) {
	genCfg := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: r.voice},
			},
		},
	}

	resp, err := r.gen.Generate(ctx, ttsModel, []*genai.Content{userContent(req)}, genCfg)
	if err != nil {
		return nil, r.normalizer.Normalize(err)
	}
	ref := inlineMedia(resp, "audio/")
	if ref == nil {
		return nil, core.NewMissingResultError("the response contained no audio")
	}

	// The backend returns raw 24 kHz PCM; wrap it so standard players can
	// decode it.
	return &Result{Audio: &types.MediaRef{
		MIMEType: "audio/wav",
		Data:     audio.WrapSpeechPCM(ref.Data),
	}}, nil
}

// userContent builds the current turn's content: prompt text followed by
// inline attachments in their original order.
func userContent(req *types.GenerationRequest) *genai.Content {
	parts := []*genai.Part{{Text: req.Prompt}}
	for _, a := range req.Attachments {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: a.MIMEType, Data: a.Data},
		})
	}
	return &genai.Content{Role: genai.RoleUser, Parts: parts}
}

// contentsFromHistory converts prior turns for threading into a chat call.
func contentsFromHistory(history []types.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := genai.RoleUser
		if m.Role == types.RoleModel {
			role = genai.RoleModel
		}
		parts := []*genai.Part{{Text: m.Content}}
		for _, a := range m.Attachments {
			parts = append(parts, &genai.Part{
				InlineData: &genai.Blob{MIMEType: a.MIMEType, Data: a.Data},
			})
		}
		contents = append(contents, &genai.Content{Role: role, Parts: parts})
	}
	return contents
}

// inlineMedia extracts the first inline part whose MIME type has the given
// prefix.
func inlineMedia(resp *genai.GenerateContentResponse, mimePrefix string) *types.MediaRef {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		if len(part.InlineData.MIMEType) < len(mimePrefix) || part.InlineData.MIMEType[:len(mimePrefix)] != mimePrefix {
			continue
		}
		return &types.MediaRef{
			MIMEType: part.InlineData.MIMEType,
			Data:     part.InlineData.Data,
		}
	}
	return nil
}
