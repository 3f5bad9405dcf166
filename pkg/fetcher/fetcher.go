package fetcher

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// Payload is one fetched image in transport encoding. Content is the raw
// bytes as base64 without any data-URI prefix. Width and Height are the
// native pixel dimensions, zero when the format could not be probed.
type Payload struct {
	Content     string
	ContentType string

	Width  int
	Height int
}

var dataURL = regexp.MustCompile(`data:([a-zA-Z]+\/[a-zA-Z0-9.+_-]+);base64,\s*(.+)`)

type Client struct {
	client *http.Client
}

func New(options ...Option) *Client {
	c := &Client{
		client: http.DefaultClient,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// Fetch resolves a locator (http, https or data URL) into a Payload.
// A non-2xx response or an empty body is fatal for this image.
func (c *Client) Fetch(ctx context.Context, locator string) (*Payload, error) {
	if locator == "" {
		return nil, fmt.Errorf("invalid locator")
	}

	if strings.HasPrefix(locator, "data:") {
		return fromDataURL(locator)
	}

	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		return c.fromURL(ctx, locator)
	}

	return nil, fmt.Errorf("unsupported locator scheme")
}

func (c *Client) fromURL(ctx context.Context, url string) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)

	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)

	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}

	contentType := resp.Header.Get("Content-Type")

	if mediatype, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediatype
	}

	payload := &Payload{
		Content:     base64.StdEncoding.EncodeToString(data),
		ContentType: contentType,
	}

	payload.Width, payload.Height = probe(data)

	return payload, nil
}

func fromDataURL(url string) (*Payload, error) {
	match := dataURL.FindStringSubmatch(url)

	if len(match) != 3 {
		return nil, fmt.Errorf("invalid data url")
	}

	content := strings.TrimSpace(match[2])

	data, err := base64.StdEncoding.DecodeString(content)

	if err != nil {
		return nil, fmt.Errorf("invalid data encoding")
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("empty image payload")
	}

	payload := &Payload{
		Content:     content,
		ContentType: match[1],
	}

	payload.Width, payload.Height = probe(data)

	return payload, nil
}

func probe(data []byte) (int, int) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))

	if err != nil {
		return 0, 0
	}

	return config.Width, config.Height
}
