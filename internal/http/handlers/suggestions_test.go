package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"retouch/internal/editing"
	"retouch/internal/middleware"
)

func TestSuggestionsUsesContextLocale(t *testing.T) {
	app := newTestApp(&stubRequestor{})

	req := httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil)
	req = req.WithContext(middleware.ContextWithLocale(req.Context(), "id"))
	rr := httptest.NewRecorder()
	app.Suggestions(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp struct {
		Locale      string               `json:"locale"`
		Suggestions []editing.Suggestion `json:"suggestions"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Locale != "id" {
		t.Fatalf("locale = %q, want %q", resp.Locale, "id")
	}
	if len(resp.Suggestions) == 0 {
		t.Fatal("no suggestions returned")
	}
	if resp.Suggestions[0].Label != "Cahaya Senja" {
		t.Fatalf("first label = %q, want the indonesian catalog", resp.Suggestions[0].Label)
	}
}

func TestSuggestionsDefaultsToEnglish(t *testing.T) {
	app := newTestApp(&stubRequestor{})

	req := httptest.NewRequest(http.MethodGet, "/v1/suggestions", nil)
	rr := httptest.NewRecorder()
	app.Suggestions(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp struct {
		Locale      string               `json:"locale"`
		Suggestions []editing.Suggestion `json:"suggestions"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Locale != "en" {
		t.Fatalf("locale = %q, want %q", resp.Locale, "en")
	}
	if len(resp.Suggestions) == 0 || resp.Suggestions[0].Label != "Golden Hour" {
		t.Fatalf("suggestions = %+v, want the english catalog", resp.Suggestions)
	}
}
