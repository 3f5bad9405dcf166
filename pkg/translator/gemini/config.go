package gemini

import (
	"context"
	"net/http"
	"time"

	"google.golang.org/genai"
)

type Config struct {
	token string
	model string

	timeout time.Duration

	client *http.Client
}

type Option func(*Config)

func WithClient(client *http.Client) Option {
	return func(c *Config) {
		c.client = client
	}
}

func WithCredential(token string) Option {
	return func(c *Config) {
		c.token = token
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.timeout = timeout
	}
}

func (c *Config) newClient(ctx context.Context, token string) (*genai.Client, error) {
	config := &genai.ClientConfig{
		APIKey:  token,
		Backend: genai.BackendGeminiAPI,

		HTTPClient: c.client,
	}

	return genai.NewClient(ctx, config)
}
