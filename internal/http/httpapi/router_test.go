package httpapi_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"retouch/internal/editing"
	handlers "retouch/internal/http/handlers"
	"retouch/internal/http/httpapi"
	"retouch/internal/infra"
	"retouch/internal/providers/gemini"
)

// fakeGemini mocks the generateContent endpoint with a single edited image.
func fakeGemini(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[
			{"text":"done"},
			{"inlineData":{"mimeType":"image/png","data":"RURJVEVE"}}
		]},"finishReason":"STOP"}]}`)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func newTestRouter(t *testing.T, apiKey, baseURL string) http.Handler {
	t.Helper()
	cfg := &infra.Config{
		AppEnv:          "test",
		Port:            "0",
		GeminiAPIKey:    apiKey,
		GeminiModel:     "gemini-2.5-flash-image",
		GeminiBaseURL:   baseURL,
		RateLimitPerMin: 100,
		MaxUploadBytes:  1 << 20,
		EditConcurrency: 1,
		DefaultLocale:   "en",
	}
	logger := zerolog.Nop()
	client, err := gemini.NewClient(gemini.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	editor := editing.NewService(client, &logger)
	app := handlers.NewApp(cfg, logger, editor)
	return httpapi.NewRouter(app)
}

func TestRouterServesUIAndDocs(t *testing.T) {
	router := newTestRouter(t, "test-key", fakeGemini(t).URL)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET / status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("GET / content type = %q", ct)
	}
	if !strings.Contains(rr.Body.String(), "Retouch") {
		t.Fatal("page body does not carry the app shell")
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/openapi.json", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /v1/openapi.json status = %d", rr.Code)
	}
	var doc map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("openapi document is not valid JSON: %v", err)
	}
	if doc["openapi"] == "" {
		t.Fatal("openapi version missing from document")
	}
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter(t, "test-key", fakeGemini(t).URL)

	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var resp struct {
		Status     string `json:"status"`
		Configured bool   `json:"configured"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" || !resp.Configured {
		t.Fatalf("health = %+v, want ok and configured", resp)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID header missing")
	}
}

func TestRouterSuggestionsLocale(t *testing.T) {
	router := newTestRouter(t, "test-key", fakeGemini(t).URL)

	req := httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil)
	req.Header.Set("X-Locale", "id")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var resp struct {
		Locale string `json:"locale"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Locale != "id" {
		t.Fatalf("locale = %q, want %q", resp.Locale, "id")
	}
}

func TestRouterUploadThenEdit(t *testing.T) {
	router := newTestRouter(t, "test-key", fakeGemini(t).URL)

	// Upload a small PNG.
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "photo.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.RemoteAddr = "203.0.113.7:4821"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("upload status = %d; body=%s", rr.Code, rr.Body.String())
	}

	var uploaded struct {
		ImageBase64 string `json:"image_base64"`
		MediaType   string `json:"media_type"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&uploaded); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	if uploaded.ImageBase64 == "" || uploaded.MediaType != "image/png" {
		t.Fatalf("upload response = %+v", uploaded)
	}

	// Feed the encoded image back through the edit endpoint.
	editBody, err := json.Marshal(map[string]string{
		"image_base64": uploaded.ImageBase64,
		"media_type":   uploaded.MediaType,
		"instruction":  "make it look like night",
	})
	if err != nil {
		t.Fatalf("marshal edit body: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/v1/edits", bytes.NewReader(editBody))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "it-req-7")
	req.RemoteAddr = "203.0.113.7:4821"
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("edit status = %d; body=%s", rr.Code, rr.Body.String())
	}
	if got := rr.Header().Get("X-Request-ID"); got != "it-req-7" {
		t.Fatalf("X-Request-ID = %q, want the inbound id echoed", got)
	}

	var edited struct {
		ImageBase64 string `json:"image_base64"`
		MediaType   string `json:"media_type"`
		Text        string `json:"text"`
		RequestID   string `json:"request_id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&edited); err != nil {
		t.Fatalf("decode edit response: %v", err)
	}
	if edited.ImageBase64 != "RURJVEVE" {
		t.Fatalf("image_base64 = %q, want the provider payload untouched", edited.ImageBase64)
	}
	if edited.MediaType != "image/png" || edited.Text != "done" {
		t.Fatalf("edit response = %+v", edited)
	}
	if edited.RequestID != "it-req-7" {
		t.Fatalf("request_id = %q, want %q", edited.RequestID, "it-req-7")
	}
}

func TestRouterEditWithoutCredential(t *testing.T) {
	router := newTestRouter(t, "", fakeGemini(t).URL)

	body := `{"image_base64":"QUJD","instruction":"brighten"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/edits", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if resp["error"] != "not_configured" {
		t.Fatalf("error = %q, want %q", resp["error"], "not_configured")
	}
}
