package fetcher_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/panelglot/panelglot/pkg/fetcher"

	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	var buf bytes.Buffer

	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))

	return buf.Bytes()
}

func TestFetch(t *testing.T) {
	data := pngBytes(t, 800, 1200)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer server.Close()

	c := fetcher.New()

	payload, err := c.Fetch(context.Background(), server.URL+"/panel.png")
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(payload.Content)
	require.NoError(t, err)
	require.Equal(t, data, decoded)

	require.Equal(t, "image/png", payload.ContentType)
	require.Equal(t, 800, payload.Width)
	require.Equal(t, 1200, payload.Height)
}

func TestFetchDataURL(t *testing.T) {
	data := pngBytes(t, 300, 400)
	encoded := base64.StdEncoding.EncodeToString(data)

	c := fetcher.New()

	payload, err := c.Fetch(context.Background(), "data:image/png;base64,"+encoded)
	require.NoError(t, err)

	require.Equal(t, encoded, payload.Content)
	require.Equal(t, "image/png", payload.ContentType)
	require.Equal(t, 300, payload.Width)
	require.Equal(t, 400, payload.Height)
}

func TestFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := fetcher.New()

	_, err := c.Fetch(context.Background(), server.URL+"/missing.png")
	require.Error(t, err)
}

func TestFetchEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := fetcher.New()

	_, err := c.Fetch(context.Background(), server.URL+"/empty.png")
	require.Error(t, err)
}

func TestFetchUnsupportedScheme(t *testing.T) {
	c := fetcher.New()

	for _, locator := range []string{"", "file:///tmp/panel.png", "ftp://example.com/panel.png"} {
		_, err := c.Fetch(context.Background(), locator)
		require.Error(t, err)
	}
}

func TestFetchInvalidDataURL(t *testing.T) {
	c := fetcher.New()

	_, err := c.Fetch(context.Background(), "data:image/png;base64,!!!not-base64!!!")
	require.Error(t, err)
}

func TestFetchUnknownFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte("not an image"))
	}))
	defer server.Close()

	c := fetcher.New()

	// Undecodable formats still fetch, just without probed dimensions.
	payload, err := c.Fetch(context.Background(), server.URL+"/blob")
	require.NoError(t, err)
	require.Zero(t, payload.Width)
	require.Zero(t, payload.Height)
}
