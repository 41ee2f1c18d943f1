package main

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/matt-g-everett/chartling/tween"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testConfigYAML = `
engine: tween
tween:
  frameRate: 200
  duration: 10ms
  easing: linear
containers:
  - id: sales
  - tag: div
    classes: [chart]
chartlings:
  - container: "#sales"
  - container: div.chart
    id: forecast
    base: sales
script:
  - chartling: sales
    data: [1, 2, 3]
    style:
      colors: ["#ff0000"]
  - chartling: forecast
    data: [4, 5, 6]
    options:
      duration: 5ms
      easing: out-bounce
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadConfig(t *testing.T) {
	config, err := readConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	assert.Equal(t, "tween", config.Engine)
	assert.Equal(t, 200.0, config.Tween.FrameRate)
	assert.Equal(t, 10*time.Millisecond, config.Tween.Duration)
	require.Len(t, config.Containers, 2)
	assert.Equal(t, []string{"chart"}, config.Containers[1].Classes)
	require.Len(t, config.Chartlings, 2)
	assert.Equal(t, "sales", config.Chartlings[1].Base)
	require.Len(t, config.Script, 2)
	assert.Equal(t, []float64{1, 2, 3}, config.Script[0].Data)
	assert.Equal(t, []string{"#ff0000"}, config.Script[0].Style.Colors)
	assert.Equal(t, 5*time.Millisecond, config.Script[1].Options.Duration)
	assert.Equal(t, "out-bounce", config.Script[1].Options.Easing)
}

func TestReadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "unknown engine", content: "engine: canvas\n", want: "unknown engine"},
		{name: "mqtt without topics", content: "engine: mqtt\n", want: "topics"},
		{name: "publish without frames topic", content: "publish: true\n", want: "frames"},
		{name: "chartling without container", content: "chartlings:\n  - id: a\n", want: "container is required"},
		{name: "unknown field", content: "engnie: tween\n", want: "engnie"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readConfig(writeConfig(t, tt.content))
			assert.ErrorContains(t, err, tt.want)
		})
	}

	_, err := readConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunScript(t *testing.T) {
	config, err := readConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)

	var mu sync.Mutex
	var order []string
	var last = map[string]*tween.Frame{}

	a := newApp(config, zaptest.NewLogger(t))
	a.sink = tween.SinkFunc(func(handle string, f *tween.Frame) error {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, handle)
		last[handle] = f
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, a.run(ctx))

	require.Contains(t, a.Chartlings, "forecast")
	forecast := a.Chartlings["forecast"]
	require.NotNil(t, forecast.Base())
	assert.Equal(t, "sales", forecast.Base().ID())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"sales", "sales", "forecast"}, order)
	assert.InDeltaSlice(t, []float64{4, 5, 6}, last["forecast"].Values, 1e-9)
}

func TestRunUnknownChartling(t *testing.T) {
	config, err := readConfig(writeConfig(t, testConfigYAML))
	require.NoError(t, err)
	config.Script[1].Chartling = "nope"

	a := newApp(config, zaptest.NewLogger(t))
	a.sink = tween.SinkFunc(func(string, *tween.Frame) error { return nil })
	assert.ErrorContains(t, a.run(context.Background()), "nope")
}

func TestRunPage(t *testing.T) {
	config, err := readConfig(writeConfig(t, `
tween:
  frameRate: 200
  duration: 5ms
page: |
  <html><body><main><canvas id="c1"></canvas><div class="slot"></div></main></body></html>
containers:
  - id: appended
chartlings:
  - container: "main .slot"
    id: slot
  - container: "#appended"
script:
  - chartling: slot
    data: [1]
  - chartling: appended
    data: [2]
`))
	require.NoError(t, err)

	var mu sync.Mutex
	var order []string
	a := newApp(config, zaptest.NewLogger(t))
	a.sink = tween.SinkFunc(func(handle string, f *tween.Frame) error {
		mu.Lock()
		defer mu.Unlock()
		order = append(order, handle)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, a.run(ctx))

	slot := a.Chartlings["slot"]
	require.NotNil(t, slot)
	assert.True(t, slot.Container().HasClass("slot"))
	assert.Equal(t, "main", slot.Container().Parent().Tag())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"slot", "appended"}, order)
}

func TestRunEntryPoint(t *testing.T) {
	err := run(filepath.Join(t.TempDir(), "missing.yaml"), zaptest.NewLogger(t))
	assert.Error(t, err)

	path := writeConfig(t, "tween:\n  frameRate: 200\n  duration: 5ms\ncontainers:\n  - id: a\nchartlings:\n  - container: \"#a\"\nscript:\n  - chartling: a\n    data: [1]\n")
	assert.NoError(t, run(path, zaptest.NewLogger(t)))
}
