// Command omnichat generates text, images, video and speech from one prompt,
// and runs real-time voice conversations.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/omnichat-ai/omnichat/pkg/backend"
	"github.com/omnichat-ai/omnichat/pkg/config"
	"github.com/omnichat-ai/omnichat/pkg/core/types"
	"github.com/omnichat-ai/omnichat/pkg/live"
	"github.com/omnichat-ai/omnichat/pkg/orchestrate"
)

type attachList []string

func (a *attachList) String() string { return strings.Join(*a, ",") }

func (a *attachList) Set(v string) error {
	*a = append(*a, v)
	return nil
}

func main() {
	var (
		mode       = flag.String("mode", "chat", "generation mode: chat|thinking|maps|fast|image|video|tts|live")
		aspect     = flag.String("aspect", "", "aspect ratio for image/video output, e.g. 16:9")
		size       = flag.String("size", "", "image output size, e.g. 1K or 2K")
		resolution = flag.String("resolution", "", "video output resolution, e.g. 720p")
		outDir     = flag.String("out", "", "directory for generated media (overrides OMNICHAT_OUTPUT_DIR)")
		attachs    attachList
	)
	flag.Var(&attachs, "attach", "file to attach to the prompt; repeatable")
	flag.Parse()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "omnichat:", err)
		os.Exit(1)
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	m := types.Mode(*mode)
	if !m.Valid() {
		fmt.Fprintf(os.Stderr, "omnichat: unknown mode %q\n", *mode)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if m == types.ModeLive {
		if err := runLive(ctx, cfg, log); err != nil {
			fmt.Fprintln(os.Stderr, "omnichat:", err)
			os.Exit(1)
		}
		return
	}

	prompt := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if prompt == "" {
		fmt.Fprintln(os.Stderr, "omnichat: a prompt is required")
		os.Exit(1)
	}

	attachments, err := loadAttachments(attachs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "omnichat:", err)
		os.Exit(1)
	}

	req := &types.GenerationRequest{
		Mode:        m,
		Prompt:      prompt,
		Attachments: attachments,
		Config: types.GenerationConfig{
			AspectRatio: *aspect,
			ImageSize:   *size,
			Resolution:  *resolution,
		},
	}

	if err := runGenerate(ctx, cfg, log, req); err != nil {
		fmt.Fprintln(os.Stderr, "omnichat:", err)
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, cfg config.Config, log *slog.Logger, req *types.GenerationRequest) error {
	gen, err := backend.NewGemini(ctx, cfg.APIKey)
	if err != nil {
		return err
	}
	router := orchestrate.NewRouter(gen,
		orchestrate.WithLogger(log),
		orchestrate.WithVoice(cfg.Voice),
		orchestrate.WithPoller(orchestrate.NewPoller(gen,
			orchestrate.WithPollInterval(cfg.VideoPollInterval),
			orchestrate.WithPollLogger(log))))

	user := types.NewUserMessage(req.Prompt, req.Attachments)
	reply := types.NewModelMessage()
	log.Debug("dispatching", "mode", req.Mode, "message", user.ID)

	result, err := router.Dispatch(ctx, req, func(fragment string) {
		reply.AppendContent(fragment)
		fmt.Print(fragment)
	})
	if err != nil {
		reply.Fail(err.Error())
		return err
	}

	if result.Text != "" && reply.Content == "" {
		reply.AppendContent(result.Text)
	}
	reply.SetMedia(result.Media)
	reply.SetAudio(result.Audio)
	reply.Finalize()

	if reply.Content != "" {
		fmt.Println()
	}
	for _, ref := range []*types.MediaRef{result.Media, result.Audio} {
		if ref == nil {
			continue
		}
		if !ref.Inline() {
			fmt.Println("media available at", ref.URI)
			continue
		}
		path, err := writeMedia(cfg.OutputDir, ref)
		if err != nil {
			return err
		}
		fmt.Println("saved", path)
	}
	return nil
}

func runLive(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	sink, err := newSpeakerSink()
	if err != nil {
		return err
	}

	session, err := live.NewSession(live.SessionConfig{
		Dial: func(ctx context.Context) (live.Transport, error) {
			return live.Dial(ctx, live.TransportConfig{
				APIKey: cfg.APIKey,
				Voice:  cfg.Voice,
			})
		},
		Capture: newMicSource,
		Sink:    sink,
		Logger:  log,
	})
	if err != nil {
		return err
	}

	if err := session.Activate(ctx); err != nil {
		return err
	}
	fmt.Println("voice session active; press Ctrl-C to end")

	go func() {
		<-ctx.Done()
		session.Deactivate()
	}()

	for update := range session.Updates() {
		switch update.Status {
		case live.StatusError:
			return update.Err
		default:
			log.Debug("session status", "status", update.Status)
		}
	}
	fmt.Println("session ended")
	return nil
}

func loadAttachments(paths []string) ([]types.Attachment, error) {
	var out []types.Attachment
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		out = append(out, types.Attachment{
			MIMEType: mimeType,
			Data:     data,
			Name:     filepath.Base(path),
		})
	}
	return out, nil
}

func writeMedia(dir string, ref *types.MediaRef) (string, error) {
	name := uuid.NewString() + extensionFor(ref.MIMEType)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, ref.Data, 0o644); err != nil {
		return "", fmt.Errorf("write media: %w", err)
	}
	return path, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "video/mp4":
		return ".mp4"
	case "audio/wav":
		return ".wav"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
