// Package roundrobin distributes translation calls randomly among healthy
// backends. It tracks no latency, only breaker state.
package roundrobin

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/panelglot/panelglot/pkg/router"
	"github.com/panelglot/panelglot/pkg/translator"
)

type Translator struct {
	backends []translator.Provider
	health   []*router.Health

	failureThreshold int
	recoveryTimeout  time.Duration
}

func NewTranslator(backends ...translator.Provider) (translator.Provider, error) {
	if len(backends) == 0 {
		return nil, errors.New("at least one translator is required")
	}

	health := make([]*router.Health, len(backends))

	for i := range health {
		health[i] = router.NewHealth()
	}

	return &Translator{
		backends: backends,
		health:   health,

		failureThreshold: router.DefaultFailureThreshold,
		recoveryTimeout:  router.DefaultRecoveryTimeout,
	}, nil
}

func (t *Translator) Translate(ctx context.Context, input translator.Input, options *translator.TranslateOptions) (*translator.Translation, error) {
	index := t.pick()

	result, err := t.backends[index].Translate(ctx, input, options)

	if err != nil {
		t.health[index].Fail(t.failureThreshold)
		return nil, err
	}

	t.health[index].Succeed(0, 0)

	return result, nil
}

// pick chooses randomly among backends with a non-open breaker, falling
// back to the least recently failed backend when every breaker is open.
func (t *Translator) pick() int {
	candidates := make([]int, 0, len(t.backends))

	for i, health := range t.health {
		if health.Available(t.recoveryTimeout) {
			candidates = append(candidates, i)
		}
	}

	if len(candidates) == 0 {
		return t.fallback()
	}

	return candidates[rand.Intn(len(candidates))]
}

func (t *Translator) fallback() int {
	best := 0

	var oldest time.Time

	for i, health := range t.health {
		lastFailure := health.LastFailure()

		if i == 0 || lastFailure.Before(oldest) {
			oldest = lastFailure
			best = i
		}
	}

	// The fallback gets a trial call.
	t.health[best].Probe()

	return best
}
