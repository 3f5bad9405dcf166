package azure

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

	region string

	timeout time.Duration
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		url = "https://api.cognitive.microsofttranslator.com"
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
		Text string `json:"Text"`
	}

	body := []bodyType{
		{
			Text: text,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, _ := url.Parse(strings.TrimRight(c.url, "/") + "/translator/text/v3.0/translate")

	query := u.Query()
	query.Set("to", options.Language)
	query.Set("api-version", "3.0")

	u.RawQuery = query.Encode()

	r, _ := http.NewRequestWithContext(ctx, "POST", u.String(), jsonReader(body))
	r.Header.Add("Content-Type", "application/json")

	if credential != "" {
		r.Header.Add("Ocp-Apim-Subscription-Key", credential)
	}

	if c.region != "" {
		r.Header.Add("Ocp-Apim-Subscription-Region", c.region)
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
		Translations []struct {
			Text string `json:"text"`
			To   string `json:"to"`
		} `json:"translations"`
	}

	var result []resultType

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fault.Classify(fault.ServiceTranslate, resp.StatusCode, "", false, "unreadable response: "+err.Error())
	}

	// The vendor answered but offered no translation. Distinct from a failed
	// call, so no error.
	if len(result) == 0 || len(result[0].Translations) == 0 {
		return nil, nil
	}

	return &translator.Translation{
		Text: result[0].Translations[0].Text,
	}, nil
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	type errorResponse struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	var envelope errorResponse

	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != nil {
		return fault.Classify(fault.ServiceTranslate, resp.StatusCode, "", false, envelope.Error.Message)
	}

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
