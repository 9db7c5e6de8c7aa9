package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"retouch/internal/editing"
	"retouch/internal/infra"
	"retouch/internal/providers/gemini"
	"retouch/pkg/imagecodec"
)

func main() {
	var (
		inFlag     string
		promptFlag string
		outFlag    string
		modelFlag  string
	)

	flag.StringVar(&inFlag, "in", "", "path of the image to edit")
	flag.StringVar(&promptFlag, "prompt", "", "edit instruction, e.g. \"make it look like night\"")
	flag.StringVar(&outFlag, "out", "", "path for the edited image (defaults next to the input)")
	flag.StringVar(&modelFlag, "model", "", "model to use (fallbacks to GEMINI_MODEL)")
	flag.Parse()

	_ = godotenv.Load()

	in := strings.TrimSpace(inFlag)
	prompt := strings.TrimSpace(promptFlag)
	if in == "" {
		exitWithError(errors.New("-in is required"))
	}
	if prompt == "" {
		exitWithError(errors.New("-prompt is required"))
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		exitWithError(err)
	}
	if model := strings.TrimSpace(modelFlag); model != "" {
		cfg.GeminiModel = model
	}

	file, err := os.Open(in)
	if err != nil {
		exitWithError(fmt.Errorf("failed to open input: %w", err))
	}
	encoded, err := imagecodec.Encode(file)
	file.Close()
	if err != nil {
		exitWithError(err)
	}

	logger := infra.NewLogger("cli").With().Str("cmd", "editimage").Logger()
	client, err := gemini.NewClient(gemini.Options{
		APIKey:         cfg.GeminiAPIKey,
		BaseURL:        cfg.GeminiBaseURL,
		Model:          cfg.GeminiModel,
		Logger:         &logger,
		RequestTimeout: cfg.GeminiTimeout,
	})
	if err != nil {
		exitWithError(err)
	}
	editor := editing.NewService(client, &logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GeminiTimeout+10*time.Second)
	defer cancel()

	result, err := editor.RequestEdit(ctx, editing.EditRequest{
		Image: editing.UploadedImage{
			Data:      encoded,
			MediaType: imagecodec.DetectMediaType(in, nil),
		},
		Instruction: prompt,
	})
	if err != nil {
		exitWithError(err)
	}

	data, err := imagecodec.Decode(result.Image.Data)
	if err != nil {
		exitWithError(err)
	}

	out := strings.TrimSpace(outFlag)
	if out == "" {
		out = derivedOutputPath(in, result.Image.MediaType)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		exitWithError(fmt.Errorf("failed to write output: %w", err))
	}

	fmt.Printf("edited image written to %s (%d bytes, %s)\n", out, len(data), result.Image.MediaType)
	if result.Text != "" {
		fmt.Println(result.Text)
	}
}

// derivedOutputPath places the result next to the input with an -edited
// suffix and an extension matching the returned media type.
func derivedOutputPath(in, mediaType string) string {
	ext := filepath.Ext(in)
	switch mediaType {
	case "image/png":
		ext = ".png"
	case "image/jpeg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	}
	base := strings.TrimSuffix(in, filepath.Ext(in))
	return base + "-edited" + ext
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
