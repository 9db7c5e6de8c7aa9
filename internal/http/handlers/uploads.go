package handlers

import (
	"io"
	"net/http"
	"strings"

	"retouch/pkg/imagecodec"
)

type uploadResponse struct {
	ImageBase64 string `json:"image_base64"`
	MediaType   string `json:"media_type"`
	Bytes       int    `json:"bytes"`
	Filename    string `json:"filename"`
}

// Uploads converts a multipart image upload into the base64 form the edits
// endpoint consumes. The bytes never leave the process; the browser keeps
// the encoded result as its working copy.
func (a *App) Uploads(w http.ResponseWriter, r *http.Request) {
	maxBytes := a.Config.MaxUploadBytes
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		a.error(w, http.StatusRequestEntityTooLarge, "too_large", "upload exceeds the size limit")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "read_failed", "could not read the uploaded file")
		return
	}

	mediaType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mediaType, "image/") {
		mediaType = imagecodec.DetectMediaType(header.Filename, data)
	}

	// An empty file is not an error: it encodes to the empty string.
	a.json(w, http.StatusOK, uploadResponse{
		ImageBase64: imagecodec.EncodeBytes(data),
		MediaType:   mediaType,
		Bytes:       len(data),
		Filename:    header.Filename,
	})
}
