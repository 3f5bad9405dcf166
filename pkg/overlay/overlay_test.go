package overlay_test

import (
	"testing"

	"github.com/panelglot/panelglot/pkg/detector"
	"github.com/panelglot/panelglot/pkg/overlay"

	"github.com/stretchr/testify/require"
)

func TestPosition(t *testing.T) {
	quad := detector.Quad{{100, 100}, {300, 100}, {300, 200}, {100, 200}}

	// Native 1000x1400 displayed at half size.
	box := overlay.Position(quad, 1000, 1400, 500, 700)

	require.Equal(t, 50.0, box.Left)
	require.Equal(t, 50.0, box.Top)
	require.Equal(t, 100.0, box.Width)
	require.Equal(t, 50.0, box.Height)
}

func TestPositionUnscaled(t *testing.T) {
	quad := detector.Quad{{10, 20}, {110, 20}, {110, 70}, {10, 70}}

	// Unknown natural size keeps native coordinates.
	box := overlay.Position(quad, 0, 0, 0, 0)

	require.Equal(t, 10.0, box.Left)
	require.Equal(t, 20.0, box.Top)
	require.Equal(t, 100.0, box.Width)
	require.Equal(t, 50.0, box.Height)
}

func TestPositionClamped(t *testing.T) {
	quad := detector.Quad{{900, 1300}, {1200, 1300}, {1200, 1500}, {900, 1500}}

	box := overlay.Position(quad, 1000, 1400, 500, 700)

	require.Equal(t, 450.0, box.Left)
	require.Equal(t, 650.0, box.Top)

	// Clamped into the displayed bounds.
	require.Equal(t, 50.0, box.Width)
	require.Equal(t, 50.0, box.Height)
}

func TestPositionDegenerateQuad(t *testing.T) {
	quad := detector.Quad{{100, 100}, {100, 100}, {100, 100}, {100, 100}}

	box := overlay.Position(quad, 1000, 1400, 500, 700)

	require.Equal(t, 1.0, box.Width)
	require.Equal(t, 1.0, box.Height)
}

func TestCornerBadge(t *testing.T) {
	box := overlay.CornerBadge()

	require.Equal(t, 8.0, box.Left)
	require.Equal(t, 8.0, box.Top)
	require.NotZero(t, box.Width)
	require.NotZero(t, box.Height)
}

func TestStorePlaceReplaces(t *testing.T) {
	store := overlay.NewStore()

	quad := detector.Quad{{0, 0}, {10, 0}, {10, 10}, {0, 10}}

	store.Place(overlay.Overlay{ImageID: "img-1", Kind: overlay.KindError, Quad: quad, Detail: "timeout"})
	store.Place(overlay.Overlay{ImageID: "img-1", Kind: overlay.KindTranslation, Quad: quad, TranslatedText: "Hello"})

	overlays := store.List("img-1")

	require.Len(t, overlays, 1)
	require.Equal(t, overlay.KindTranslation, overlays[0].Kind)
	require.Equal(t, "Hello", overlays[0].TranslatedText)
}

func TestStoreClearImage(t *testing.T) {
	store := overlay.NewStore()

	store.Place(overlay.Overlay{ImageID: "img-1", Quad: detector.Quad{{0, 0}, {1, 0}, {1, 1}, {0, 1}}})
	store.Place(overlay.Overlay{ImageID: "img-1", Quad: detector.Quad{{5, 5}, {6, 5}, {6, 6}, {5, 6}}})
	store.Place(overlay.Overlay{ImageID: "img-2", Quad: detector.Quad{{0, 0}, {1, 0}, {1, 1}, {0, 1}}})

	store.ClearImage("img-1")

	require.Empty(t, store.List("img-1"))
	require.Len(t, store.List("img-2"), 1)
	require.Len(t, store.All(), 1)
}

func TestStoreImageLevelBadge(t *testing.T) {
	store := overlay.NewStore()

	// A quad-less badge and a regular overlay occupy distinct slots.
	store.Place(overlay.Overlay{ImageID: "img-1", Kind: overlay.KindError, Box: overlay.CornerBadge()})
	store.Place(overlay.Overlay{ImageID: "img-1", Kind: overlay.KindTranslation, Quad: detector.Quad{{0, 0}, {1, 0}, {1, 1}, {0, 1}}})

	require.Len(t, store.List("img-1"), 2)
}

func TestStoreSubscribe(t *testing.T) {
	store := overlay.NewStore()

	events, cancel := store.Subscribe()
	defer cancel()

	store.Place(overlay.Overlay{ImageID: "img-1", Quad: detector.Quad{{0, 0}, {1, 0}, {1, 1}, {0, 1}}})

	event := <-events

	require.Equal(t, overlay.EventPlaced, event.Type)
	require.Equal(t, "img-1", event.ImageID)
	require.NotNil(t, event.Overlay)

	store.ClearImage("img-1")

	event = <-events

	require.Equal(t, overlay.EventCleared, event.Type)
	require.Equal(t, "img-1", event.ImageID)
}
