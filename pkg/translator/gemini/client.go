package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/panelglot/panelglot/pkg/fault"
	"github.com/panelglot/panelglot/pkg/translator"

	"google.golang.org/genai"
)

var _ translator.Provider = (*Client)(nil)

type Client struct {
	*Config
}

func New(model string, options ...Option) (*Client, error) {
	cfg := &Config{
		model: model,

		timeout: 10 * time.Second,
	}

	for _, option := range options {
		option(cfg)
	}

	return &Client{
		Config: cfg,
	}, nil
}

func (c *Client) Translate(ctx context.Context, input translator.Input, options *translator.TranslateOptions) (*translator.Translation, error) {
	if options == nil {
		options = new(translator.TranslateOptions)
	}

	language := options.Language

	if language == "" {
		language = "en"
	}

	text := strings.TrimSpace(input.Text)

	if text == "" {
		return nil, nil
	}

	token := c.token

	if options.Credential != "" {
		token = options.Credential
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	client, err := c.newClient(ctx, token)

	if err != nil {
		return nil, convertError(err)
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: "Act as a translator. Translate the following text to `" + language + "`. Only return the translation, no other text."},
			},
		},
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(text)}, genai.RoleUser),
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, config)

	if err != nil {
		return nil, convertError(err)
	}

	result := strings.TrimSpace(resp.Text())

	if result == "" {
		return nil, nil
	}

	return &translator.Translation{
		Text: result,
	}, nil
}

func convertError(err error) error {
	var apiError *genai.APIError

	if errors.As(err, &apiError) {
		return fault.Classify(fault.ServiceTranslate, apiError.Code, apiError.Status, false, apiError.Message)
	}

	return fault.FromTransport(fault.ServiceTranslate, err)
}
