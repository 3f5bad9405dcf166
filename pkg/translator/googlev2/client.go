package googlev2

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

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
		url = "https://translation.googleapis.com"
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
		Query  string `json:"q"`
		Target string `json:"target"`
	}

	body := bodyType{
		Query:  text,
		Target: options.Language,
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, _ := url.Parse(strings.TrimRight(c.url, "/") + "/language/translate/v2")

	query := u.Query()
	query.Set("key", credential)

	u.RawQuery = query.Encode()

	r, _ := http.NewRequestWithContext(ctx, "POST", u.String(), jsonReader(body))
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
		Data struct {
			Translations []struct {
				TranslatedText string `json:"translatedText"`
			} `json:"translations"`
		} `json:"data"`

		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	var result resultType

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fault.Classify(fault.ServiceTranslate, resp.StatusCode, "", false, "unreadable response: "+err.Error())
	}

	// A 2xx body can still carry a vendor-level error object.
	if result.Error != nil {
		return nil, fault.Classify(fault.ServiceTranslate, resp.StatusCode, result.Error.Status, false, result.Error.Message)
	}

	// The vendor answered but offered no translation. Distinct from a failed
	// call, so no error.
	if len(result.Data.Translations) == 0 {
		return nil, nil
	}

	return &translator.Translation{
		Text: decodeEntities(result.Data.Translations[0].TranslatedText),
	}, nil
}

// decodeEntities reverses the HTML escaping the vendor applies to translated
// text. Numeric references go first, then the five named entities, with
// &amp; last so a literal ampersand cannot be decoded twice.
func decodeEntities(s string) string {
	s = decodeNumericEntities(s)

	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&apos;", "'")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")

	return s
}

var numericEntity = regexp.MustCompile(`&#(\d+|[xX][0-9a-fA-F]+);`)

func decodeNumericEntities(s string) string {
	return numericEntity.ReplaceAllStringFunc(s, func(m string) string {
		ref := m[2 : len(m)-1]
		base := 10

		if ref[0] == 'x' || ref[0] == 'X' {
			ref = ref[1:]
			base = 16
		}

		code, err := strconv.ParseInt(ref, base, 32)

		if err != nil || code < 0 || !utf8.ValidRune(rune(code)) {
			return m
		}

		return string(rune(code))
	})
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	type errorResponse struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	var envelope errorResponse

	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != nil {
		return fault.Classify(fault.ServiceTranslate, resp.StatusCode, envelope.Error.Status, false, envelope.Error.Message)
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
