package editing

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Suggestion is a preset edit instruction offered by the UI.
type Suggestion struct {
	Label       string `json:"label"`
	Instruction string `json:"instruction"`
}

var suggestionCatalog = map[string][]Suggestion{
	"en": {
		{Label: "golden hour", Instruction: "Relight the scene with warm golden-hour sunlight"},
		{Label: "studio backdrop", Instruction: "Replace the background with a clean studio backdrop"},
		{Label: "watercolor", Instruction: "Repaint the photo as a soft watercolor illustration"},
		{Label: "remove clutter", Instruction: "Remove distracting objects from the background"},
		{Label: "night scene", Instruction: "Turn the scene into night with moody city lights"},
	},
	"id": {
		{Label: "cahaya senja", Instruction: "Ubah pencahayaan menjadi suasana senja keemasan"},
		{Label: "latar studio", Instruction: "Ganti latar belakang dengan backdrop studio yang bersih"},
		{Label: "cat air", Instruction: "Ubah foto menjadi ilustrasi cat air yang lembut"},
		{Label: "rapikan latar", Instruction: "Hapus objek yang mengganggu di latar belakang"},
		{Label: "suasana malam", Instruction: "Ubah suasana menjadi malam dengan lampu kota"},
	},
}

// SuggestionsForLocale returns the preset instructions for a locale with
// title-cased labels. Unknown locales fall back to English.
func SuggestionsForLocale(locale string) []Suggestion {
	presets, ok := suggestionCatalog[locale]
	if !ok {
		presets = suggestionCatalog["en"]
	}
	c := cases.Title(language.Und)
	out := make([]Suggestion, len(presets))
	for i, preset := range presets {
		out[i] = Suggestion{Label: c.String(preset.Label), Instruction: preset.Instruction}
	}
	return out
}
