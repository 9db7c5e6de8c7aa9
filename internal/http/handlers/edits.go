package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"retouch/internal/editing"
	"retouch/internal/middleware"
	"retouch/pkg/imagecodec"
)

type editRequestBody struct {
	ImageBase64 string `json:"image_base64" validate:"required,base64"`
	MediaType   string `json:"media_type" validate:"omitempty,startswith=image/"`
	Instruction string `json:"instruction" validate:"required,max=2000"`
}

type editResponse struct {
	ImageBase64 string `json:"image_base64"`
	MediaType   string `json:"media_type"`
	Text        string `json:"text,omitempty"`
	Model       string `json:"model"`
	RequestID   string `json:"request_id"`
}

// Edits runs one edit round trip against the generation service and returns
// the edited image. There is no queue: when an edit is already in flight the
// request is rejected, matching the page's busy state.
func (a *App) Edits(w http.ResponseWriter, r *http.Request) {
	var req editRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	// Data URI uploads are tolerated: strip the header and let an embedded
	// media type fill an absent one.
	payload, embedded := imagecodec.SplitDataURI(req.ImageBase64)
	req.ImageBase64 = payload
	if req.MediaType == "" {
		req.MediaType = embedded
	}

	if err := a.validate.Struct(req); err != nil {
		a.error(w, http.StatusUnprocessableEntity, "invalid_request", validationMessage(err))
		return
	}

	if !a.acquireEditSlot() {
		a.error(w, http.StatusTooManyRequests, "busy", "an edit is already in flight")
		return
	}
	defer a.releaseEditSlot()

	result, err := a.Editor.RequestEdit(r.Context(), editing.EditRequest{
		Image:       editing.UploadedImage{Data: req.ImageBase64, MediaType: req.MediaType},
		Instruction: req.Instruction,
		RequestID:   middleware.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		switch {
		case errors.Is(err, editing.ErrMissingCredential):
			a.error(w, http.StatusServiceUnavailable, "not_configured", "image editing is not configured on this server")
		case errors.Is(err, editing.ErrInvalidRequest):
			a.error(w, http.StatusUnprocessableEntity, "invalid_request", err.Error())
		default:
			a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
		}
		return
	}

	a.json(w, http.StatusCreated, editResponse{
		ImageBase64: result.Image.Data,
		MediaType:   result.Image.MediaType,
		Text:        result.Text,
		Model:       result.Model,
		RequestID:   result.RequestID,
	})
}
