package handlers

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"retouch/internal/editing"
	"retouch/internal/infra"
)

// App aggregates the dependencies shared by the HTTP handlers.
type App struct {
	Config *infra.Config
	Logger infra.Logger
	Editor editing.Requestor

	validate *validator.Validate

	// editLimiter mirrors the page's busy flag: while an edit is in
	// flight, further edits are turned away instead of queued.
	editLimiter chan struct{}
}

// NewApp wires the shared handler state.
func NewApp(cfg *infra.Config, logger infra.Logger, editor editing.Requestor) *App {
	concurrency := 1
	if cfg != nil && cfg.EditConcurrency > 0 {
		concurrency = cfg.EditConcurrency
	}
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &App{
		Config:      cfg,
		Logger:      logger,
		Editor:      editor,
		validate:    validate,
		editLimiter: make(chan struct{}, concurrency),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

func (a *App) acquireEditSlot() bool {
	select {
	case a.editLimiter <- struct{}{}:
		return true
	default:
		return false
	}
}

func (a *App) releaseEditSlot() {
	select {
	case <-a.editLimiter:
	default:
	}
}

// validationMessage flattens the first field error into a user-facing string.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "base64":
		return fe.Field() + " must be base64 encoded"
	case "startswith":
		return fe.Field() + " must be an image media type"
	case "max":
		return fe.Field() + " is too long"
	}
	return fe.Field() + " is invalid"
}
