package vision_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/panelglot/panelglot/pkg/detector"
	"github.com/panelglot/panelglot/pkg/detector/vision"
	"github.com/panelglot/panelglot/pkg/fault"

	"github.com/stretchr/testify/require"
)

func annotateResponse(t *testing.T, body string) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/images:annotate", r.URL.Path)
		require.Equal(t, "secret", r.URL.Query().Get("key"))

		var payload struct {
			Requests []struct {
				Image struct {
					Content string `json:"content"`
				} `json:"image"`
				Features []struct {
					Type string `json:"type"`
				} `json:"features"`
			} `json:"requests"`
		}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Len(t, payload.Requests, 1)
		require.Equal(t, "TEXT_DETECTION", payload.Requests[0].Features[0].Type)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func TestDetect(t *testing.T) {
	body := `{
		"responses": [{
			"fullTextAnnotation": {
				"pages": [{
					"blocks": [{
						"boundingBox": {"vertices": [{"x":10,"y":20},{"x":110,"y":20},{"x":110,"y":60},{"x":10,"y":60}]},
						"paragraphs": [{
							"words": [
								{"symbols": [
									{"text": "H"},
									{"text": "i", "property": {"detectedBreak": {"type": "SPACE"}}}
								]},
								{"symbols": [
									{"text": "y"},
									{"text": "o", "property": {"detectedBreak": {"type": "LINE_BREAK"}}}
								]}
							]
						}]
					}]
				}]
			}
		}]
	}`

	server := httptest.NewServer(annotateResponse(t, body))
	defer server.Close()

	c, err := vision.New(server.URL)
	require.NoError(t, err)

	regions, err := c.Detect(context.Background(), detector.Input{Content: "aGVsbG8="}, &detector.DetectOptions{Credential: "secret"})
	require.NoError(t, err)
	require.Len(t, regions, 1)

	require.Equal(t, "Hi yo", regions[0].Text)
	require.Equal(t, detector.Quad{{10, 20}, {110, 20}, {110, 60}, {10, 60}}, regions[0].Quad)
}

func TestDetectDiscardsBlocksWithoutQuad(t *testing.T) {
	body := `{
		"responses": [{
			"fullTextAnnotation": {
				"pages": [{
					"blocks": [
						{
							"boundingBox": {"vertices": [{"x":1,"y":1},{"x":2,"y":1}]},
							"paragraphs": [{"words": [{"symbols": [{"text": "x"}]}]}]
						},
						{
							"boundingBox": {"vertices": [{"x":0,"y":0},{"x":9,"y":0},{"x":9,"y":9},{"x":0,"y":9}]},
							"paragraphs": [{"words": [{"symbols": [{"text": "ok"}]}]}]
						}
					]
				}]
			}
		}]
	}`

	server := httptest.NewServer(annotateResponse(t, body))
	defer server.Close()

	c, err := vision.New(server.URL, vision.WithCredential("secret"))
	require.NoError(t, err)

	regions, err := c.Detect(context.Background(), detector.Input{Content: "aGVsbG8="}, nil)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	require.Equal(t, "ok", regions[0].Text)
}

func TestDetectNoText(t *testing.T) {
	server := httptest.NewServer(annotateResponse(t, `{"responses": [{}]}`))
	defer server.Close()

	c, err := vision.New(server.URL, vision.WithCredential("secret"))
	require.NoError(t, err)

	regions, err := c.Detect(context.Background(), detector.Input{Content: "aGVsbG8="}, nil)
	require.NoError(t, err)
	require.Empty(t, regions)
}

func TestDetectVendorErrorInsideSuccess(t *testing.T) {
	body := `{"responses": [{"error": {"code": 7, "message": "permission denied", "status": "PERMISSION_DENIED"}}]}`

	server := httptest.NewServer(annotateResponse(t, body))
	defer server.Close()

	c, err := vision.New(server.URL, vision.WithCredential("secret"))
	require.NoError(t, err)

	_, err = c.Detect(context.Background(), detector.Input{Content: "aGVsbG8="}, nil)
	require.Error(t, err)

	var fe *fault.Error

	require.ErrorAs(t, err, &fe)
	require.Equal(t, fault.ServiceOCR, fe.Service)
	require.True(t, fe.AuthError)
	require.Equal(t, "PERMISSION_DENIED", fe.ServiceStatusCode)
}

func TestDetectTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"code": 429, "message": "Quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	c, err := vision.New(server.URL, vision.WithCredential("secret"))
	require.NoError(t, err)

	_, err = c.Detect(context.Background(), detector.Input{Content: "aGVsbG8="}, nil)

	var fe *fault.Error

	require.ErrorAs(t, err, &fe)
	require.Equal(t, 429, fe.TransportStatus)
	require.True(t, fe.QuotaError)
	require.False(t, fe.AuthError)
}

func TestDetectTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c, err := vision.New(server.URL, vision.WithCredential("secret"), vision.WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Detect(context.Background(), detector.Input{Content: "aGVsbG8="}, nil)

	var fe *fault.Error

	require.ErrorAs(t, err, &fe)
	require.True(t, fe.TimeoutError)
	require.Equal(t, 0, fe.TransportStatus)
}

func TestDetectNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	c, err := vision.New(server.URL, vision.WithCredential("secret"))
	require.NoError(t, err)

	_, err = c.Detect(context.Background(), detector.Input{Content: "aGVsbG8="}, nil)

	var fe *fault.Error

	require.ErrorAs(t, err, &fe)
	require.True(t, fe.NetworkError)
	require.False(t, fe.TimeoutError)
}
