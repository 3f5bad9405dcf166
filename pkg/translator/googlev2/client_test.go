package googlev2_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/panelglot/panelglot/pkg/fault"
	"github.com/panelglot/panelglot/pkg/translator"
	"github.com/panelglot/panelglot/pkg/translator/googlev2"

	"github.com/stretchr/testify/require"
)

func translateServer(t *testing.T, translated string, calls *atomic.Int64) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}

		require.Equal(t, "/language/translate/v2", r.URL.Path)
		require.Equal(t, "secret", r.URL.Query().Get("key"))

		var payload struct {
			Query  string `json:"q"`
			Target string `json:"target"`
		}

		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.NotEmpty(t, payload.Query)
		require.NotEmpty(t, payload.Target)

		w.Header().Set("Content-Type", "application/json")

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"translations": []map[string]any{
					{"translatedText": translated},
				},
			},
		})
	}))
}

func TestTranslate(t *testing.T) {
	server := translateServer(t, "Hello", nil)
	defer server.Close()

	c, err := googlev2.New(server.URL, googlev2.WithCredential("secret"))
	require.NoError(t, err)

	result, err := c.Translate(context.Background(), translator.Input{Text: "こんにちは"}, &translator.TranslateOptions{Language: "en"})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "Hello", result.Text)
}

func TestTranslateSkipsEmptyText(t *testing.T) {
	var calls atomic.Int64

	server := translateServer(t, "unused", &calls)
	defer server.Close()

	c, err := googlev2.New(server.URL, googlev2.WithCredential("secret"))
	require.NoError(t, err)

	for _, text := range []string{"", "   ", "\n\t "} {
		result, err := c.Translate(context.Background(), translator.Input{Text: text}, nil)
		require.NoError(t, err)
		require.Nil(t, result)
	}

	require.Equal(t, int64(0), calls.Load())
}

func TestTranslateDecodesEntities(t *testing.T) {
	tests := []struct {
		vendor string
		want   string
	}{
		{"It&#39;s here", "It's here"},
		{"It&#x27;s here", "It's here"},
		{"He said &quot;hi&quot; &amp; left", `He said "hi" & left`},
		{"a &lt; b &gt; c", "a < b > c"},
		{"literal &amp;#39; stays escaped once", "literal &#39; stays escaped once"},
		{"fish &amp; chips", "fish & chips"},
	}

	for _, tt := range tests {
		t.Run(tt.vendor, func(t *testing.T) {
			server := translateServer(t, tt.vendor, nil)
			defer server.Close()

			c, err := googlev2.New(server.URL, googlev2.WithCredential("secret"))
			require.NoError(t, err)

			result, err := c.Translate(context.Background(), translator.Input{Text: "x"}, nil)
			require.NoError(t, err)
			require.Equal(t, tt.want, result.Text)
		})
	}
}

func TestTranslateMissingTranslation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"translations": []}}`))
	}))
	defer server.Close()

	c, err := googlev2.New(server.URL, googlev2.WithCredential("secret"))
	require.NoError(t, err)

	// The service answered without a translation: nil result, no error.
	result, err := c.Translate(context.Background(), translator.Input{Text: "x"}, nil)
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestTranslateQuotaError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "Quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
	}))
	defer server.Close()

	c, err := googlev2.New(server.URL, googlev2.WithCredential("secret"))
	require.NoError(t, err)

	_, err = c.Translate(context.Background(), translator.Input{Text: "x"}, nil)

	var fe *fault.Error

	require.ErrorAs(t, err, &fe)
	require.Equal(t, fault.ServiceTranslate, fe.Service)
	require.Equal(t, 429, fe.TransportStatus)
	require.True(t, fe.QuotaError)
	require.False(t, fe.AuthError)
}

func TestTranslateTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	c, err := googlev2.New(server.URL, googlev2.WithCredential("secret"), googlev2.WithTimeout(20*time.Millisecond))
	require.NoError(t, err)

	_, err = c.Translate(context.Background(), translator.Input{Text: "x"}, nil)

	var fe *fault.Error

	require.ErrorAs(t, err, &fe)
	require.True(t, fe.TimeoutError)
}
