package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"retouch/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// ErrNoImageContent indicates a well-formed response that carried no inline
// image in its first candidate.
var ErrNoImageContent = errors.New("gemini: response contains no image data")

// Options configures the Gemini image editing client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Gemini generateContent API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

// EditRequest captures the required inputs for an image edit. ImageData is
// the plain base64 payload without a data URI prefix.
type EditRequest struct {
	ImageData   string
	MediaType   string
	Instruction string
	RequestID   string
}

// EditedImage is the normalized result from the API. Data holds the base64
// payload exactly as it arrived; it is never decoded and re-encoded.
type EditedImage struct {
	Data      string
	MediaType string
	Text      string
}

type generateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type generateContentResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
// The credential is fixed at construction; nothing is read from the
// environment at call time.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gemini-2.5-flash-image"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// EditImage invokes the generateContent API once and returns the first inline
// image from the first candidate. There are no retries: a failed call
// surfaces its diagnostic and the caller decides what to do with it.
func (c *Client) EditImage(ctx context.Context, req EditRequest) (*EditedImage, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	imageData := strings.TrimSpace(req.ImageData)
	if imageData == "" {
		return nil, errors.New("gemini: image data is required")
	}
	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		return nil, errors.New("gemini: instruction is required")
	}
	mediaType := strings.TrimSpace(req.MediaType)
	if mediaType == "" {
		mediaType = "image/png"
	}

	payload := generateContentRequest{
		Contents: []geminiContent{{
			Role: "user",
			Parts: []geminiPart{
				{InlineData: &geminiInlineData{MimeType: mediaType, Data: imageData}},
				{Text: instruction},
			},
		}},
		GenerationConfig: &geminiGenerationConfig{
			ResponseModalities: []string{"IMAGE", "TEXT"},
		},
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gemini: read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Error.Message != "" {
			return nil, fmt.Errorf("gemini: status %d: %s", resp.StatusCode, detail.Error.Message)
		}
		return nil, fmt.Errorf("gemini: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}

	edited := firstInlineImage(decoded)
	if edited == nil {
		if reason := refusalReason(decoded); reason != "" {
			return nil, fmt.Errorf("%w (%s)", ErrNoImageContent, reason)
		}
		return nil, ErrNoImageContent
	}

	c.logger.Debug().
		Str("model", c.model).
		Str("request_id", req.RequestID).
		Str("media_type", edited.MediaType).
		Msg("gemini: received edited image")
	return edited, nil
}

// firstInlineImage walks the first candidate's parts in order, takes the
// first inline image, and keeps any text parts as commentary. Later
// candidates are ignored.
func firstInlineImage(resp generateContentResponse) *EditedImage {
	if len(resp.Candidates) == 0 {
		return nil
	}
	var edited *EditedImage
	var texts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		switch {
		case part.InlineData != nil && part.InlineData.Data != "":
			if edited != nil {
				continue
			}
			mediaType := part.InlineData.MimeType
			if mediaType == "" {
				mediaType = "image/png"
			}
			edited = &EditedImage{Data: part.InlineData.Data, MediaType: mediaType}
		case strings.TrimSpace(part.Text) != "":
			texts = append(texts, strings.TrimSpace(part.Text))
		}
	}
	if edited != nil && len(texts) > 0 {
		edited.Text = strings.Join(texts, " ")
	}
	return edited
}

// refusalReason extracts why a response came back imageless, when the API
// said so: a prompt-feedback block or an abnormal finish reason.
func refusalReason(resp generateContentResponse) string {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "blocked: " + resp.PromptFeedback.BlockReason
	}
	if len(resp.Candidates) > 0 {
		if fr := resp.Candidates[0].FinishReason; fr != "" && fr != "STOP" {
			return "finish reason: " + fr
		}
	}
	return ""
}
