package settings_test

import (
	"testing"

	"github.com/panelglot/panelglot/pkg/settings"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := settings.New()

	values := s.Values()

	require.Empty(t, values.Credential)
	require.Equal(t, "en", values.TargetLanguage)
	require.Equal(t, 14, values.Display.FontSize)
	require.Equal(t, 9999, values.Display.ZIndex)
}

func TestUpdate(t *testing.T) {
	s := settings.New()

	s.Update(settings.Values{
		Credential:     "secret",
		TargetLanguage: "de",
	})

	values := s.Values()

	require.Equal(t, "secret", values.Credential)
	require.Equal(t, "de", values.TargetLanguage)

	// Unset display fields fall back to defaults.
	require.Equal(t, 14, values.Display.FontSize)
	require.Equal(t, "#FFFFFF", values.Display.TextColor)
	require.Equal(t, 0.75, values.Display.BackgroundAlpha)
}

func TestUpdateClearsCredential(t *testing.T) {
	s := settings.New(settings.WithCredential("secret"))

	s.Update(settings.Values{TargetLanguage: "en"})

	require.Empty(t, s.Values().Credential)
}

func TestOptions(t *testing.T) {
	s := settings.New(
		settings.WithCredential("secret"),
		settings.WithTargetLanguage("ja"),
	)

	values := s.Values()

	require.Equal(t, "secret", values.Credential)
	require.Equal(t, "ja", values.TargetLanguage)
}
