// Package adaptive routes translation calls to the backend with the best
// blend of latency, error rate and current load.
package adaptive

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/panelglot/panelglot/pkg/router"
	"github.com/panelglot/panelglot/pkg/translator"
)

// Weight of the newest latency sample in the moving average.
const defaultLatencyAlpha = 0.3

type Translator struct {
	backends []translator.Provider
	health   []*router.Health

	failureThreshold int
	recoveryTimeout  time.Duration
	latencyAlpha     float64
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
		latencyAlpha:     defaultLatencyAlpha,
	}, nil
}

func (t *Translator) Translate(ctx context.Context, input translator.Input, options *translator.TranslateOptions) (*translator.Translation, error) {
	index := t.pick()

	health := t.health[index]

	health.Begin()
	defer health.Done()

	start := time.Now()

	result, err := t.backends[index].Translate(ctx, input, options)

	if err != nil {
		health.Fail(t.failureThreshold)
		return nil, err
	}

	health.Succeed(time.Since(start), t.latencyAlpha)

	return result, nil
}

// pick scores every backend with a non-open breaker and draws one by
// weighted random selection, falling back to the least recently failed
// backend when every breaker is open.
func (t *Translator) pick() int {
	candidates := make([]int, 0, len(t.backends))
	scores := make([]float64, 0, len(t.backends))

	for i, health := range t.health {
		if !health.Available(t.recoveryTimeout) {
			continue
		}

		candidates = append(candidates, i)
		scores = append(scores, score(health.Snapshot()))
	}

	if len(candidates) == 0 {
		return t.fallback()
	}

	return weighted(candidates, scores)
}

// score rates a backend. Lower latency, fewer errors and less load all
// raise the score; a half-open breaker is sampled at a tenth of its
// weight to limit trial traffic.
func score(snapshot router.Snapshot) float64 {
	latency := float64(snapshot.AvgLatency.Milliseconds())

	if latency < 1 {
		latency = 1
	}

	var errorRate float64

	if snapshot.Requests > 0 {
		errorRate = float64(snapshot.Failures) / float64(snapshot.Requests)
	}

	load := 1.0 / (1.0 + float64(snapshot.Inflight))

	value := load / (latency * (1 + errorRate*10))

	if snapshot.State == router.StateHalfOpen {
		value *= 0.1
	}

	return value
}

func weighted(candidates []int, scores []float64) int {
	if len(candidates) == 1 {
		return candidates[0]
	}

	var total float64

	for _, value := range scores {
		total += value
	}

	if total <= 0 {
		return candidates[rand.Intn(len(candidates))]
	}

	point := rand.Float64() * total

	var cumulative float64

	for i, value := range scores {
		cumulative += value

		if point <= cumulative {
			return candidates[i]
		}
	}

	return candidates[len(candidates)-1]
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
