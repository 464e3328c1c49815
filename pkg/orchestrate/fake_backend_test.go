package orchestrate

import (
	"context"
	"iter"

	"google.golang.org/genai"
)

// fakeGenerator scripts backend responses for router, stream, and poller
// tests. No network involved.
type fakeGenerator struct {
	streamFragments []string
	streamErr       error // yielded after the scripted fragments
	streamModel     string

	generateResp  *genai.GenerateContentResponse
	generateErr   error
	generateModel string
	generateCfg   *genai.GenerateContentConfig
	lastContents  []*genai.Content

	videoOp     *genai.GenerateVideosOperation
	videoErr    error
	videoCfg    *genai.GenerateVideosConfig
	videoSeed   *genai.Image
	videoPrompt string

	pollQueue []*genai.GenerateVideosOperation
	pollCalls int
}

func textFragment(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: text}},
			},
		}},
	}
}

func inlineResponse(mimeType string, data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role: genai.RoleModel,
				Parts: []*genai.Part{{
					InlineData: &genai.Blob{MIMEType: mimeType, Data: data},
				}},
			},
		}},
	}
}

func (f *fakeGenerator) GenerateStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error] {
	f.streamModel = model
	f.lastContents = contents
	return func(yield func(*genai.GenerateContentResponse, error) bool) {
		for _, fragment := range f.streamFragments {
			if !yield(textFragment(fragment), nil) {
				return
			}
		}
		if f.streamErr != nil {
			yield(nil, f.streamErr)
		}
	}
}

func (f *fakeGenerator) Generate(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.generateModel = model
	f.generateCfg = config
	f.lastContents = contents
	return f.generateResp, f.generateErr
}

func (f *fakeGenerator) GenerateVideos(ctx context.Context, model, prompt string, image *genai.Image, config *genai.GenerateVideosConfig) (*genai.GenerateVideosOperation, error) {
	f.videoPrompt = prompt
	f.videoSeed = image
	f.videoCfg = config
	return f.videoOp, f.videoErr
}

func (f *fakeGenerator) PollVideos(ctx context.Context, op *genai.GenerateVideosOperation) (*genai.GenerateVideosOperation, error) {
	next := f.pollQueue[f.pollCalls]
	f.pollCalls++
	return next, nil
}
