package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/panelglot/panelglot/pkg/detector"
	"github.com/panelglot/panelglot/pkg/fault"
)

var _ detector.Provider = (*Client)(nil)

type Client struct {
	client *http.Client

	url        string
	credential string

	timeout time.Duration
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		url = "https://vision.googleapis.com"
	}

	c := &Client{
		client: http.DefaultClient,

		url: url,

		timeout: 15 * time.Second,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Detect(ctx context.Context, input detector.Input, options *detector.DetectOptions) ([]detector.Region, error) {
	if options == nil {
		options = new(detector.DetectOptions)
	}

	credential := options.Credential

	if credential == "" {
		credential = c.credential
	}

	type featureType struct {
		Type string `json:"type"`
	}

	type imageType struct {
		Content string `json:"content"`
	}

	type requestType struct {
		Image    imageType     `json:"image"`
		Features []featureType `json:"features"`
	}

	type bodyType struct {
		Requests []requestType `json:"requests"`
	}

	body := bodyType{
		Requests: []requestType{
			{
				Image: imageType{
					Content: input.Content,
				},

				Features: []featureType{
					{Type: "TEXT_DETECTION"},
				},
			},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u, _ := url.Parse(strings.TrimRight(c.url, "/") + "/v1/images:annotate")

	query := u.Query()
	query.Set("key", credential)

	u.RawQuery = query.Encode()

	r, _ := http.NewRequestWithContext(ctx, "POST", u.String(), jsonReader(body))
	r.Header.Add("Content-Type", "application/json")

	resp, err := c.client.Do(r)

	if err != nil {
		return nil, fault.FromTransport(fault.ServiceOCR, err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, convertError(resp)
	}

	var result BatchResponse

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fault.Classify(fault.ServiceOCR, resp.StatusCode, "", false, "unreadable response: "+err.Error())
	}

	if len(result.Responses) == 0 {
		return nil, fault.Classify(fault.ServiceOCR, resp.StatusCode, "", false, "empty annotate response")
	}

	annotation := result.Responses[0]

	// A 2xx envelope can still carry a vendor-level error for the image.
	if annotation.Error != nil {
		return nil, fault.Classify(fault.ServiceOCR, resp.StatusCode, annotation.Error.Status, false, annotation.Error.Message)
	}

	if annotation.FullTextAnnotation == nil {
		return nil, nil
	}

	return convertRegions(annotation.FullTextAnnotation), nil
}

func convertRegions(annotation *TextAnnotation) []detector.Region {
	var regions []detector.Region

	for _, page := range annotation.Pages {
		for _, block := range page.Blocks {
			quad := convertQuad(block.BoundingBox)

			if !quad.Valid() {
				slog.Warn("discarding text block without usable quad", "vertices", len(quad))
				continue
			}

			regions = append(regions, detector.Region{
				Text: blockText(block),

				Quad: quad,
			})
		}
	}

	return regions
}

// blockText reassembles a block from its symbol-level characters, turning
// every vendor-marked word or line break into a single space, then collapses
// whitespace runs.
func blockText(block Block) string {
	var sb strings.Builder

	for _, paragraph := range block.Paragraphs {
		for _, word := range paragraph.Words {
			for _, symbol := range word.Symbols {
				sb.WriteString(symbol.Text)

				if symbol.Property != nil && symbol.Property.DetectedBreak != nil && symbol.Property.DetectedBreak.Type != "" {
					sb.WriteString(" ")
				}
			}
		}
	}

	return strings.Join(strings.Fields(sb.String()), " ")
}

func convertQuad(box *BoundingPoly) detector.Quad {
	if box == nil {
		return nil
	}

	quad := make(detector.Quad, 0, len(box.Vertices))

	for _, v := range box.Vertices {
		quad = append(quad, [2]float64{v.X, v.Y})
	}

	return quad
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	var envelope ErrorResponse

	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != nil {
		return fault.Classify(fault.ServiceOCR, resp.StatusCode, envelope.Error.Status, false, envelope.Error.Message)
	}

	message := strings.TrimSpace(string(data))

	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return fault.Classify(fault.ServiceOCR, resp.StatusCode, "", false, message)
}

func jsonReader(v any) io.Reader {
	b := new(bytes.Buffer)

	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)

	enc.Encode(v)

	return b
}
