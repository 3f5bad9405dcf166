package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/panelglot/panelglot/pkg/settings"
)

type Settings = settings.Values

type SettingsService struct {
	Options []RequestOption
}

func NewSettingsService(opts ...RequestOption) SettingsService {
	return SettingsService{
		Options: opts,
	}
}

func (r *SettingsService) Get(ctx context.Context, opts ...RequestOption) (*Settings, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/v1/settings", nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}

	var values Settings

	if err := json.NewDecoder(resp.Body).Decode(&values); err != nil {
		return nil, err
	}

	return &values, nil
}

// Update replaces the stored settings. The answer is the normalized form
// the server will use from the next processed image on.
func (r *SettingsService) Update(ctx context.Context, input Settings, opts ...RequestOption) (*Settings, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	var data bytes.Buffer

	if err := json.NewEncoder(&data).Encode(input); err != nil {
		return nil, err
	}

	req, _ := http.NewRequestWithContext(ctx, "PUT", c.URL+"/v1/settings", &data)
	req.Header.Set("Content-Type", "application/json")

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(resp.Status)
	}

	var values Settings

	if err := json.NewDecoder(resp.Body).Decode(&values); err != nil {
		return nil, err
	}

	return &values, nil
}
