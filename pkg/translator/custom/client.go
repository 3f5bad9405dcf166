// Package custom calls a self-hosted translation service. The service
// accepts POST {url}/translate with a JSON body of {"text", "language"} and
// answers {"text"} with the translated content. An empty answer means the
// service had nothing to say for the input.
package custom

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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
		return nil, errors.New("invalid url")
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
		Text     string `json:"text"`
		Language string `json:"language"`
	}

	body := bodyType{
		Text:     text,
		Language: options.Language,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, _ := url.JoinPath(c.url, "/translate")
	r, _ := http.NewRequestWithContext(ctx, "POST", u, jsonReader(body))
	r.Header.Add("Content-Type", "application/json")

	if credential != "" {
		r.Header.Add("Authorization", "Bearer "+credential)
	}

	resp, err := c.client.Do(r)

	if err != nil {
		return nil, fault.FromTransport(fault.ServiceTranslate, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, convertError(resp)
	}

	type resultType struct {
		Text string `json:"text"`
	}

	var result resultType

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fault.Classify(fault.ServiceTranslate, resp.StatusCode, "", false, "unreadable response: "+err.Error())
	}

	if result.Text == "" {
		return nil, nil
	}

	return &translator.Translation{
		Text: result.Text,
	}, nil
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	message := strings.TrimSpace(string(data))

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
