package client

import (
	"net/http"
)

type Client struct {
	Sessions SessionService

	Analyses AnalysisService
	Settings SettingsService

	Overlays OverlayService
	Events   EventService
}

func New(url string, opts ...RequestOption) *Client {
	opts = append(opts, WithURL(url))

	return &Client{
		Sessions: NewSessionService(opts...),

		Analyses: NewAnalysisService(opts...),
		Settings: NewSettingsService(opts...),

		Overlays: NewOverlayService(opts...),
		Events:   NewEventService(opts...),
	}
}

func newRequestConfig(opts ...RequestOption) *RequestConfig {
	c := &RequestConfig{
		Client: http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}
