package settings

import (
	"sync"
)

// Values are the user-tunable settings consulted by the pipeline. The
// pipeline reads a fresh snapshot per image, so a change takes effect on
// the next image processed, never retroactively.
type Values struct {
	Credential     string `json:"credential"`
	TargetLanguage string `json:"targetLanguage"`

	Display Display `json:"display"`
}

// Display styles the rendered overlays.
type Display struct {
	FontSize int `json:"fontSize"`

	TextColor       string  `json:"textColor"`
	BackgroundColor string  `json:"backgroundColor"`
	BackgroundAlpha float64 `json:"backgroundAlpha"`

	ZIndex int `json:"zIndex"`
}

func Defaults() Values {
	return Values{
		TargetLanguage: "en",

		Display: Display{
			FontSize: 14,

			TextColor:       "#FFFFFF",
			BackgroundColor: "#000000",
			BackgroundAlpha: 0.75,

			ZIndex: 9999,
		},
	}
}

type Store struct {
	mu sync.RWMutex

	values Values
}

func New(options ...Option) *Store {
	s := &Store{
		values: Defaults(),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Values returns a snapshot of the current settings.
func (s *Store) Values() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.values
}

// Update replaces the stored settings. Zero-valued fields fall back to
// their defaults so a partial update cannot strip the view styling.
func (s *Store) Update(values Values) Values {
	defaults := Defaults()

	if values.TargetLanguage == "" {
		values.TargetLanguage = defaults.TargetLanguage
	}

	if values.Display.FontSize == 0 {
		values.Display.FontSize = defaults.Display.FontSize
	}

	if values.Display.TextColor == "" {
		values.Display.TextColor = defaults.Display.TextColor
	}

	if values.Display.BackgroundColor == "" {
		values.Display.BackgroundColor = defaults.Display.BackgroundColor
	}

	if values.Display.BackgroundAlpha == 0 {
		values.Display.BackgroundAlpha = defaults.Display.BackgroundAlpha
	}

	if values.Display.ZIndex == 0 {
		values.Display.ZIndex = defaults.Display.ZIndex
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = values

	return values
}
