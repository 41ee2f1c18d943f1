package tween

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/matt-g-everett/chartling/chartling"
	"github.com/matt-g-everett/chartling/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	frames map[string][]*Frame
	order  []string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{frames: make(map[string][]*Frame)}
}

func (s *recordingSink) Render(handle string, f *Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames[handle] = append(s.frames[handle], f)
	s.order = append(s.order, handle)
	return nil
}

func (s *recordingSink) get(handle string) []*Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames[handle]
}

var fastConfig = Config{FrameRate: 200, Duration: 20 * time.Millisecond, Easing: "linear"}

func TestNewValidatesConfig(t *testing.T) {
	sink := newRecordingSink()

	_, err := New(nil, Config{FrameRate: -1}, sink, nil)
	assert.Error(t, err)

	_, err = New(nil, Config{Easing: "wobble"}, sink, nil)
	assert.ErrorContains(t, err, "wobble")

	_, err = New(nil, fastConfig, nil, nil)
	assert.Error(t, err)

	for _, rate := range []float64{2e9, MaxFrameRate + 1, math.Inf(1), math.NaN()} {
		_, err = New(nil, Config{FrameRate: rate, Duration: time.Nanosecond}, sink, nil)
		assert.Error(t, err, "frame rate %v", rate)
	}
	_, err = New(nil, Config{FrameRate: MaxFrameRate}, sink, nil)
	assert.NoError(t, err)

	el := dom.NewElement("div")
	e, err := New(el, Config{}, sink, nil)
	require.NoError(t, err)
	assert.Same(t, el, e.Container())
	assert.Equal(t, DefaultConfig, e.config)
}

func TestReadyResolvesOnce(t *testing.T) {
	e, err := New(nil, fastConfig, newRecordingSink(), nil)
	require.NoError(t, err)

	require.True(t, e.Ready().WaitTimeout(time.Second))
	assert.NoError(t, e.Ready().Error())
	assert.Same(t, e.Ready(), e.Ready())
}

func TestAnimateRendersEasedFrames(t *testing.T) {
	sink := newRecordingSink()
	e, err := New(nil, fastConfig, sink, nil)
	require.NoError(t, err)

	tok := e.Animate(chartling.Request{
		Handle: "a",
		From:   &chartling.Payload{Data: []float64{0, 100}},
		To:     chartling.Payload{Data: []float64{4, 0}},
	})
	require.True(t, tok.WaitTimeout(time.Second))
	require.NoError(t, tok.Error())

	frames := sink.get("a")
	require.Len(t, frames, 4)
	assert.InDeltaSlice(t, []float64{1, 75}, frames[0].Values, 1e-9)
	assert.InDeltaSlice(t, []float64{4, 0}, frames[3].Values, 1e-9)
}

func TestAnimatePayloadOptions(t *testing.T) {
	sink := newRecordingSink()
	e, err := New(nil, fastConfig, sink, nil)
	require.NoError(t, err)

	tok := e.Animate(chartling.Request{
		Handle: "a",
		To: chartling.Payload{
			Data:    []float64{10},
			Options: chartling.Options{Duration: 5 * time.Millisecond, Easing: "in-quad"},
		},
	})
	require.True(t, tok.WaitTimeout(time.Second))
	require.NoError(t, tok.Error())
	require.Len(t, sink.get("a"), 1)
	assert.InDelta(t, 10.0, sink.get("a")[0].Values[0], 1e-9)
}

func TestAnimateNegativeDurationJumpsToTarget(t *testing.T) {
	sink := newRecordingSink()
	e, err := New(nil, fastConfig, sink, nil)
	require.NoError(t, err)

	tok := e.Animate(chartling.Request{
		Handle: "a",
		From:   &chartling.Payload{Data: []float64{2}},
		To:     chartling.Payload{Data: []float64{8}, Options: chartling.Options{Duration: -1}},
	})
	require.True(t, tok.WaitTimeout(time.Second))
	require.NoError(t, tok.Error())
	require.Len(t, sink.get("a"), 1)
	assert.InDelta(t, 8.0, sink.get("a")[0].Values[0], 1e-9)
}

func TestAnimateFailures(t *testing.T) {
	failing := SinkFunc(func(string, *Frame) error { return errors.New("display gone") })

	tests := []struct {
		name string
		sink Sink
		req  chartling.Request
		want string
	}{
		{
			name: "bad target colour",
			sink: newRecordingSink(),
			req:  chartling.Request{To: chartling.Payload{Style: chartling.Style{Colors: []string{"nope"}}}},
			want: "target state",
		},
		{
			name: "bad base colour",
			sink: newRecordingSink(),
			req:  chartling.Request{From: &chartling.Payload{Style: chartling.Style{Colors: []string{"#12"}}}},
			want: "from state",
		},
		{
			name: "unknown easing",
			sink: newRecordingSink(),
			req:  chartling.Request{To: chartling.Payload{Options: chartling.Options{Easing: "wobble"}}},
			want: "wobble",
		},
		{
			name: "too many frames",
			sink: newRecordingSink(),
			req:  chartling.Request{To: chartling.Payload{Options: chartling.Options{Duration: time.Hour}}},
			want: "limit",
		},
		{
			name: "sink error",
			sink: failing,
			req:  chartling.Request{To: chartling.Payload{Data: []float64{1}}},
			want: "display gone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := New(nil, fastConfig, tt.sink, nil)
			require.NoError(t, err)
			tok := e.Animate(tt.req)
			require.True(t, tok.WaitTimeout(time.Second))
			assert.ErrorContains(t, tok.Error(), tt.want)
		})
	}
}

func TestControllerWithTweenEngine(t *testing.T) {
	doc := dom.NewDocument()
	for _, id := range []string{"a", "b"} {
		el := doc.CreateElement("div")
		el.SetID(id)
		require.NoError(t, doc.Append(doc.Body(), el))
	}

	sink := newRecordingSink()
	ctrl := chartling.NewController(doc)
	ctrl.Bind(NewFactory(fastConfig, sink, nil))

	a, err := chartling.New(ctrl, dom.Selector("#a"))
	require.NoError(t, err)
	b, err := chartling.New(ctrl, dom.Selector("#b"), chartling.WithBase(chartling.BaseHandle(a)))
	require.NoError(t, err)
	_, ok := a.Chart().(*Engine)
	require.True(t, ok)

	a.SetData([]float64{100})
	b.SetData([]float64{200})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, ctrl.WaitIdle(ctx))

	// b continues from a's final state instead of zero.
	bFrames := sink.get("b")
	require.Len(t, bFrames, 4)
	assert.InDelta(t, 125.0, bFrames[0].Values[0], 1e-9)

	// Every frame of a was rendered before the first frame of b.
	sink.mu.Lock()
	defer sink.mu.Unlock()
	assert.Equal(t, []string{"a", "a", "a", "a", "b", "b", "b", "b"}, sink.order)
}
