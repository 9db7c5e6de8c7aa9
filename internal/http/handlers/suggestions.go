package handlers

import (
	"net/http"

	"retouch/internal/editing"
	"retouch/internal/middleware"
)

// Suggestions returns preset edit instructions for the negotiated locale.
func (a *App) Suggestions(w http.ResponseWriter, r *http.Request) {
	locale := middleware.LocaleFromContext(r.Context())
	a.json(w, http.StatusOK, map[string]any{
		"locale":      locale,
		"suggestions": editing.SuggestionsForLocale(locale),
	})
}
