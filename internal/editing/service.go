package editing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"retouch/internal/infra"
	"retouch/internal/providers/gemini"
)

// editClient is the slice of the provider client the service relies on.
type editClient interface {
	EditImage(ctx context.Context, req gemini.EditRequest) (*gemini.EditedImage, error)
	HasCredentials() bool
	Model() string
}

// Service owns the edit round trip: it hands the encoded image and the
// instruction to the provider and normalizes failures for the UI layer.
type Service struct {
	client editClient
	logger *infra.Logger
}

// NewService wires the provider client with an optional logger.
func NewService(client editClient, logger *infra.Logger) *Service {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Service{client: client, logger: logger}
}

// Ready reports whether edits can be attempted at all.
func (s *Service) Ready() bool {
	return s != nil && s.client != nil && s.client.HasCredentials()
}

// Model returns the provider model edits are routed to.
func (s *Service) Model() string {
	if s == nil || s.client == nil {
		return ""
	}
	return s.client.Model()
}

// RequestEdit performs exactly one edit attempt. A missing credential comes
// back as ErrMissingCredential before any network traffic happens; every
// other provider failure is logged here and wrapped as ErrGenerationFailed
// with its diagnostic preserved in the message.
func (s *Service) RequestEdit(ctx context.Context, req EditRequest) (*EditResult, error) {
	if s == nil || s.client == nil || !s.client.HasCredentials() {
		return nil, ErrMissingCredential
	}
	image := strings.TrimSpace(req.Image.Data)
	if image == "" {
		return nil, fmt.Errorf("%w: image payload is empty", ErrInvalidRequest)
	}
	instruction := strings.TrimSpace(req.Instruction)
	if instruction == "" {
		return nil, fmt.Errorf("%w: instruction is empty", ErrInvalidRequest)
	}
	requestID := strings.TrimSpace(req.RequestID)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	edited, err := s.client.EditImage(ctx, gemini.EditRequest{
		ImageData:   image,
		MediaType:   req.Image.MediaType,
		Instruction: instruction,
		RequestID:   requestID,
	})
	if err != nil {
		if errors.Is(err, gemini.ErrMissingAPIKey) {
			return nil, ErrMissingCredential
		}
		s.logger.Error().
			Err(err).
			Str("request_id", requestID).
			Bool("no_image", errors.Is(err, gemini.ErrNoImageContent)).
			Msg("editing: edit request failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	s.logger.Info().
		Str("request_id", requestID).
		Str("model", s.client.Model()).
		Msg("editing: edit request succeeded")

	return &EditResult{
		Image:     UploadedImage{Data: edited.Data, MediaType: edited.MediaType},
		Text:      edited.Text,
		Model:     s.client.Model(),
		RequestID: requestID,
	}, nil
}

var _ Requestor = (*Service)(nil)
