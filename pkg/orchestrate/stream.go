package orchestrate

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"github.com/omnichat-ai/omnichat/pkg/backend"
)

// consumeStream drains one streaming chat call. Fragments are accumulated
// and handed to onChunk synchronously in arrival order. Cancellation of ctx
// stops consumption and returns the text accumulated so far with no error;
// any other failure is returned raw for the caller to normalize.
func consumeStream(ctx context.Context, gen backend.Generator, profile Profile, contents []*genai.Content, onChunk func(string)) (string, error) {
	var acc strings.Builder

	for resp, err := range gen.GenerateStream(ctx, profile.Model, contents, profile.generateConfig()) {
		if ctx.Err() != nil {
			return acc.String(), nil
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return acc.String(), nil
			}
			return "", err
		}

		fragment := fragmentText(resp)
		if fragment == "" {
			continue
		}
		acc.WriteString(fragment)
		if onChunk != nil {
			onChunk(fragment)
		}
	}
	return acc.String(), nil
}

// fragmentText concatenates the text parts of one streamed fragment.
func fragmentText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}
