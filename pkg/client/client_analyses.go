package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	api "github.com/panelglot/panelglot/server/api"
)

type Analysis = api.Analysis
type Status = api.Status

type AnalysisService struct {
	Options []RequestOption
}

func NewAnalysisService(opts ...RequestOption) AnalysisService {
	return AnalysisService{
		Options: opts,
	}
}

// New triggers an analysis of the focused session. A busy answer is a valid
// outcome, not an error: the returned status tells them apart.
func (r *AnalysisService) New(ctx context.Context, opts ...RequestOption) (*Analysis, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "POST", c.URL+"/v1/analyze", nil)

	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusConflict {
		return nil, errors.New(resp.Status)
	}

	var analysis Analysis

	if err := json.NewDecoder(resp.Body).Decode(&analysis); err != nil {
		return nil, err
	}

	return &analysis, nil
}

func (r *AnalysisService) Status(ctx context.Context, opts ...RequestOption) (*Status, error) {
	c := newRequestConfig(append(r.Options, opts...)...)

	req, _ := http.NewRequestWithContext(ctx, "GET", c.URL+"/v1/status", nil)

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

	var status Status

	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, err
	}

	return &status, nil
}
