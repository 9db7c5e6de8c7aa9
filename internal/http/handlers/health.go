package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	configured := a.Editor != nil && a.Editor.Ready()
	a.json(w, http.StatusOK, map[string]any{"status": "ok", "configured": configured})
}
