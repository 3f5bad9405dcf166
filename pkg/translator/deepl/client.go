package deepl

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/panelglot/panelglot/pkg/fault"
	"github.com/panelglot/panelglot/pkg/translator"
)

var _ translator.Provider = (*Client)(nil)

type Client struct {
	client *http.Client

	url        string
	credential string

	timeout time.Duration
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		url = "https://api-free.deepl.com"
	}

	c := &Client{
		client: http.DefaultClient,

		url: url,

		timeout: 10 * time.Second,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Translate(ctx context.Context, input translator.Input, options *translator.TranslateOptions) (*translator.Translation, error) {
	if options == nil {
		options = new(translator.TranslateOptions)
	}

	if options.Language == "" {
		options.Language = "en"
	}

	text := strings.TrimSpace(input.Text)

	// Empty text is a skip, not a failure. No call is made.
	if text == "" {
		return nil, nil
	}

	credential := options.Credential

	if credential == "" {
		credential = c.credential
	}

	type bodyType struct {
		Text       []string `json:"text"`
		TargetLang string   `json:"target_lang"`
	}

	body := bodyType{
		Text: []string{
			text,
		},

		TargetLang: options.Language,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, _ := url.JoinPath(c.url, "/v2/translate")
	r, _ := http.NewRequestWithContext(ctx, "POST", u, jsonReader(body))
	r.Header.Add("Authorization", "DeepL-Auth-Key "+credential)
	r.Header.Add("Content-Type", "application/json")

	resp, err := c.client.Do(r)

	if err != nil {
		return nil, fault.FromTransport(fault.ServiceTranslate, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, convertError(resp)
	}

	type resultType struct {
		Translations []struct {
			DetectedSourceLanguage string `json:"detected_source_language"`
			Text                   string `json:"text"`
		} `json:"translations"`
	}

	var result resultType

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fault.Classify(fault.ServiceTranslate, resp.StatusCode, "", false, "unreadable response: "+err.Error())
	}

	// The vendor answered but offered no translation. Distinct from a failed
	// call, so no error.
	if len(result.Translations) == 0 {
		return nil, nil
	}

	return &translator.Translation{
		Text: result.Translations[0].Text,
	}, nil
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	type errorResponse struct {
		Message string `json:"message"`
	}

	var envelope errorResponse

	message := strings.TrimSpace(string(data))

	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Message != "" {
		message = envelope.Message
	}

	// 456 is the vendor's character quota status.
	if resp.StatusCode == 456 && message == "" {
		message = "quota exceeded"
	}

	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return fault.Classify(fault.ServiceTranslate, resp.StatusCode, "", false, message)
}

func jsonReader(v any) io.Reader {
	b := new(bytes.Buffer)

	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)

	enc.Encode(v)

	return b
}
