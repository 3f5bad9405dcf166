package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/panelglot/panelglot/pkg/overlay"
)

type Overlay = overlay.Overlay

type OverlayService struct {
	Options []RequestOption
}

func NewOverlayService(opts ...RequestOption) OverlayService {
	return OverlayService{
		Options: opts,
	}
}

func (r *OverlayService) List(ctx context.Context, session string, opts ...RequestOption) ([]Overlay, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/v1/sessions/"+session+"/overlays", nil)

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

	var overlays []Overlay

	if err := json.NewDecoder(resp.Body).Decode(&overlays); err != nil {
		return nil, err
	}

	return overlays, nil
}
