package editing

import "context"

// UploadedImage is the browser-held representation of a picked file: the
// plain base64 payload plus its media type.
type UploadedImage struct {
	Data      string `json:"image_base64"`
	MediaType string `json:"media_type"`
}

// EditRequest pairs the current image with the user's instruction for one
// edit attempt.
type EditRequest struct {
	Image       UploadedImage
	Instruction string
	RequestID   string
}

// EditResult is the outcome of one attempt. Each attempt replaces the
// previous one on the client side; nothing outlives the interaction.
type EditResult struct {
	Image     UploadedImage
	Text      string
	Model     string
	RequestID string
}

// Requestor is the contract the HTTP layer programs against.
type Requestor interface {
	RequestEdit(ctx context.Context, req EditRequest) (*EditResult, error)
	Ready() bool
	Model() string
}
