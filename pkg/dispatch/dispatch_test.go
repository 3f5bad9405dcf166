package dispatch_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/panelglot/panelglot/pkg/bus"
	"github.com/panelglot/panelglot/pkg/detector"
	"github.com/panelglot/panelglot/pkg/dispatch"
	"github.com/panelglot/panelglot/pkg/fault"
	"github.com/panelglot/panelglot/pkg/pipeline"
	"github.com/panelglot/panelglot/pkg/settings"
	"github.com/panelglot/panelglot/pkg/status"
	"github.com/panelglot/panelglot/pkg/translator"

	"github.com/stretchr/testify/require"
)

const instance = "instance-1"

type stubTrigger struct {
	calls atomic.Int64

	block chan struct{}
}

func (t *stubTrigger) Trigger(ctx context.Context) error {
	t.calls.Add(1)

	if t.block != nil {
		<-t.block
	}

	return nil
}

type stubDetector struct {
	regions []detector.Region
	failure error
}

func (d *stubDetector) Detect(ctx context.Context, input detector.Input, options *detector.DetectOptions) ([]detector.Region, error) {
	if d.failure != nil {
		return nil, d.failure
	}

	return d.regions, nil
}

type stubTranslator struct {
	failure error
	panics  bool
}

func (t *stubTranslator) Translate(ctx context.Context, input translator.Input, options *translator.TranslateOptions) (*translator.Translation, error) {
	if t.panics {
		panic("translator blew up")
	}

	if t.failure != nil {
		return nil, t.failure
	}

	return &translator.Translation{Text: "translated " + input.Text}, nil
}

type capture struct {
	mu sync.Mutex

	envelopes []bus.Envelope
}

func (c *capture) attach(pipe *bus.Pipe) {
	pipe.Attach(func(ctx context.Context, envelope bus.Envelope) (*bus.Envelope, error) {
		c.mu.Lock()
		defer c.mu.Unlock()

		c.envelopes = append(c.envelopes, envelope)

		return nil, nil
	})
}

func (c *capture) byAction(action string) []bus.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()

	var matched []bus.Envelope

	for _, envelope := range c.envelopes {
		if envelope.Action == action {
			matched = append(matched, envelope)
		}
	}

	return matched
}

func imageURL(t *testing.T) string {
	t.Helper()

	var buffer bytes.Buffer

	err := png.Encode(&buffer, image.NewRGBA(image.Rect(0, 0, 4, 4)))
	require.NoError(t, err)

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buffer.Bytes())
}

func quad() detector.Quad {
	return detector.Quad{{10, 10}, {90, 10}, {90, 40}, {10, 40}}
}

func newDispatcher(t *testing.T, trigger dispatch.Trigger, d detector.Provider, tr translator.Provider) *dispatch.Dispatcher {
	t.Helper()

	store := settings.New(settings.WithCredential("secret"))

	processor, err := pipeline.New(
		pipeline.WithSettings(store),
		pipeline.WithDetector(d),
		pipeline.WithTranslator(tr),
		pipeline.WithInstance(instance),
	)
	require.NoError(t, err)

	dispatcher, err := dispatch.New(
		dispatch.WithPipeline(processor),
		dispatch.WithTrigger(trigger),
		dispatch.WithInstance(instance),
	)
	require.NoError(t, err)

	dispatcher.Attach()
	t.Cleanup(dispatcher.Detach)

	return dispatcher
}

func begin(t *testing.T, dispatcher *dispatch.Dispatcher) bus.Ack {
	t.Helper()

	envelope, err := bus.NewEnvelope(bus.ActionBeginAnalysis, instance, nil)
	require.NoError(t, err)

	reply, err := dispatcher.Pipe().Call(context.Background(), envelope)
	require.NoError(t, err)
	require.NotNil(t, reply)

	var ack bus.Ack

	require.NoError(t, reply.Decode(&ack))

	return ack
}

func TestBeginAnalysis(t *testing.T) {
	trigger := &stubTrigger{}

	dispatcher := newDispatcher(t, trigger, &stubDetector{}, &stubTranslator{})

	ack := begin(t, dispatcher)
	require.Equal(t, bus.StatusReceived, ack.Status)

	require.Eventually(t, func() bool {
		return trigger.calls.Load() == 1 && !dispatcher.Running()
	}, time.Second, 5*time.Millisecond)
}

func TestBeginAnalysisBusy(t *testing.T) {
	trigger := &stubTrigger{block: make(chan struct{})}

	dispatcher := newDispatcher(t, trigger, &stubDetector{}, &stubTranslator{})

	ack := begin(t, dispatcher)
	require.Equal(t, bus.StatusReceived, ack.Status)

	require.Eventually(t, dispatcher.Running, time.Second, time.Millisecond)

	ack = begin(t, dispatcher)
	require.Equal(t, bus.StatusBusy, ack.Status)
	require.EqualValues(t, 1, trigger.calls.Load())

	close(trigger.block)

	require.Eventually(t, func() bool {
		return !dispatcher.Running()
	}, time.Second, time.Millisecond)

	ack = begin(t, dispatcher)
	require.Equal(t, bus.StatusReceived, ack.Status)

	require.Eventually(t, func() bool {
		return trigger.calls.Load() == 2
	}, time.Second, 5*time.Millisecond)
}

func TestBeginAnalysisClearsStatus(t *testing.T) {
	dispatcher := newDispatcher(t, &stubTrigger{}, &stubDetector{}, &stubTranslator{})

	dispatcher.Status().Error(status.CodeError, "stale failure")

	begin(t, dispatcher)

	require.Equal(t, status.CodeClear, dispatcher.Status().State().Code)
}

func TestProcessImage(t *testing.T) {
	d := &stubDetector{regions: []detector.Region{{Text: "hello", Quad: quad()}}}

	dispatcher := newDispatcher(t, &stubTrigger{}, d, &stubTranslator{})

	reply := bus.NewPipe()

	sink := &capture{}
	sink.attach(reply)

	envelope, err := bus.NewEnvelope(bus.ActionProcessImage, instance, bus.ProcessImage{
		ImageURL: imageURL(t),
		ImageID:  "img-1-1",
	})
	require.NoError(t, err)

	require.NoError(t, dispatcher.Channel(reply).Send(context.Background(), envelope))

	require.Eventually(t, func() bool {
		return len(sink.byAction(bus.ActionDisplayTranslation)) == 1
	}, time.Second, 5*time.Millisecond)

	var payload bus.DisplayTranslation

	require.NoError(t, sink.byAction(bus.ActionDisplayTranslation)[0].Decode(&payload))
	require.Equal(t, "img-1-1", payload.ImageID)
	require.Equal(t, "translated hello", payload.TranslatedText)
}

func TestProcessImageValidation(t *testing.T) {
	dispatcher := newDispatcher(t, &stubTrigger{}, &stubDetector{}, &stubTranslator{})

	envelope, err := bus.NewEnvelope(bus.ActionProcessImage, instance, bus.ProcessImage{ImageURL: imageURL(t)})
	require.NoError(t, err)

	require.ErrorContains(t, dispatcher.Channel(bus.NewPipe()).Send(context.Background(), envelope), "required")

	envelope, err = bus.NewEnvelope(bus.ActionProcessImage, instance, bus.ProcessImage{ImageURL: imageURL(t), ImageID: "img-1-1"})
	require.NoError(t, err)

	_, err = dispatcher.Pipe().Call(context.Background(), envelope)
	require.ErrorContains(t, err, "no surface")
}

func TestUnknownAction(t *testing.T) {
	dispatcher := newDispatcher(t, &stubTrigger{}, &stubDetector{}, &stubTranslator{})

	envelope, err := bus.NewEnvelope("open-pod-bay-doors", instance, nil)
	require.NoError(t, err)

	reply, err := dispatcher.Pipe().Call(context.Background(), envelope)
	require.NoError(t, err)
	require.NotNil(t, reply)

	var ack bus.Ack

	require.NoError(t, reply.Decode(&ack))
	require.Equal(t, bus.StatusUnknownAction, ack.Status)
}

func TestForeignInstanceDropped(t *testing.T) {
	trigger := &stubTrigger{}

	dispatcher := newDispatcher(t, trigger, &stubDetector{}, &stubTranslator{})

	envelope, err := bus.NewEnvelope(bus.ActionBeginAnalysis, "instance-2", nil)
	require.NoError(t, err)

	reply, err := dispatcher.Pipe().Call(context.Background(), envelope)
	require.NoError(t, err)
	require.Nil(t, reply)
	require.EqualValues(t, 0, trigger.calls.Load())
}

func TestAuthFailureRaisesCredentialStatus(t *testing.T) {
	tr := &stubTranslator{failure: fault.Classify(fault.ServiceTranslate, 403, "PERMISSION_DENIED", false, "key rejected")}
	d := &stubDetector{regions: []detector.Region{{Text: "hello", Quad: quad()}}}

	dispatcher := newDispatcher(t, &stubTrigger{}, d, tr)

	reply := bus.NewPipe()

	sink := &capture{}
	sink.attach(reply)

	envelope, err := bus.NewEnvelope(bus.ActionProcessImage, instance, bus.ProcessImage{
		ImageURL: imageURL(t),
		ImageID:  "img-1-1",
	})
	require.NoError(t, err)

	require.NoError(t, dispatcher.Channel(reply).Send(context.Background(), envelope))

	require.Eventually(t, func() bool {
		return dispatcher.Status().State().Code == status.CodeCredential
	}, time.Second, 5*time.Millisecond)

	require.Len(t, sink.byAction(bus.ActionProcessingError), 1)
}

func TestQuotaFailureRaisesQuotaStatus(t *testing.T) {
	tr := &stubTranslator{failure: fault.Classify(fault.ServiceTranslate, 429, "RESOURCE_EXHAUSTED", false, "quota exceeded")}
	d := &stubDetector{regions: []detector.Region{{Text: "hello", Quad: quad()}}}

	dispatcher := newDispatcher(t, &stubTrigger{}, d, tr)

	reply := bus.NewPipe()
	reply.Attach(func(ctx context.Context, envelope bus.Envelope) (*bus.Envelope, error) {
		return nil, nil
	})

	envelope, err := bus.NewEnvelope(bus.ActionProcessImage, instance, bus.ProcessImage{
		ImageURL: imageURL(t),
		ImageID:  "img-1-1",
	})
	require.NoError(t, err)

	require.NoError(t, dispatcher.Channel(reply).Send(context.Background(), envelope))

	require.Eventually(t, func() bool {
		return dispatcher.Status().State().Code == status.CodeQuota
	}, time.Second, 5*time.Millisecond)
}

func TestProcessingPanicRecovered(t *testing.T) {
	d := &stubDetector{regions: []detector.Region{{Text: "hello", Quad: quad()}}}

	dispatcher := newDispatcher(t, &stubTrigger{}, d, &stubTranslator{panics: true})

	reply := bus.NewPipe()
	reply.Attach(func(ctx context.Context, envelope bus.Envelope) (*bus.Envelope, error) {
		return nil, nil
	})

	envelope, err := bus.NewEnvelope(bus.ActionProcessImage, instance, bus.ProcessImage{
		ImageURL: imageURL(t),
		ImageID:  "img-1-1",
	})
	require.NoError(t, err)

	require.NoError(t, dispatcher.Channel(reply).Send(context.Background(), envelope))

	require.Eventually(t, func() bool {
		return dispatcher.Status().State().Code == status.CodeError
	}, time.Second, 5*time.Millisecond)
}

func TestNewValidation(t *testing.T) {
	_, err := dispatch.New()
	require.Error(t, err)

	processor, err := pipeline.New(
		pipeline.WithSettings(settings.New()),
		pipeline.WithDetector(&stubDetector{}),
		pipeline.WithTranslator(&stubTranslator{}),
	)
	require.NoError(t, err)

	_, err = dispatch.New(dispatch.WithPipeline(processor))
	require.ErrorContains(t, err, "trigger")
}
