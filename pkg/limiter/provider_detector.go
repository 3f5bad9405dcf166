package limiter

import (
	"context"

	"github.com/panelglot/panelglot/pkg/detector"

	"golang.org/x/time/rate"
)

type Detector interface {
	Limiter
	detector.Provider
}

type limitedDetector struct {
	limiter  *rate.Limiter
	provider detector.Provider
}

func NewDetector(l *rate.Limiter, p detector.Provider) Detector {
	return &limitedDetector{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedDetector) limiterSetup() {
}

func (p *limitedDetector) Detect(ctx context.Context, input detector.Input, options *detector.DetectOptions) ([]detector.Region, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return p.provider.Detect(ctx, input, options)
}
