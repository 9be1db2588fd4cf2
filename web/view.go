// Package web serves an interactive chart over HTTP. The browser is a
// thin client: it receives rendered SVG frames over a websocket and
// reports pointer events back, while all chart state lives server-side.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/raykavin/timechart/chart"
	"github.com/raykavin/timechart/core"
	"github.com/raykavin/timechart/dataset"
	"github.com/raykavin/timechart/svg"
)

// Static assets embedded in the binary
var (
	//go:embed assets
	staticFiles embed.FS
)

// View hosts one chart over HTTP: it owns the drawing surface, the
// chart engine and the websocket fan-out. Handlers and the frame loop
// share it under the embedded mutex.
type View struct {
	sync.Mutex
	port          int
	debug         bool
	width         float64
	height        float64
	frameInterval time.Duration
	chartOpts     []chart.Option

	log       core.Logger
	chart     *chart.TimeChart
	doc       *svg.Document
	ds        *dataset.Dataset
	fields    []string
	store     core.DatasetStorage
	dirty     bool
	animating bool

	scriptContent string
	indexHTML     *template.Template
	wsManager     *WebSocketManager
	lastUpdate    time.Time
}

// Option defines a function type for configuring a View instance
type Option func(*View)

// WithPort sets the HTTP server port
func WithPort(port int) Option {
	return func(v *View) { v.port = port }
}

// WithDebug enables debug mode (disables script minification)
func WithDebug() Option {
	return func(v *View) { v.debug = true }
}

// WithSize sets the drawing surface dimensions in pixels.
func WithSize(width, height float64) Option {
	return func(v *View) { v.width, v.height = width, height }
}

// WithFrameInterval sets how often the frame loop advances transitions.
func WithFrameInterval(d time.Duration) Option {
	return func(v *View) {
		if d > 0 {
			v.frameInterval = d
		}
	}
}

// WithDatasetStorage enables switching between persisted datasets.
func WithDatasetStorage(store core.DatasetStorage) Option {
	return func(v *View) { v.store = store }
}

// WithChartOptions forwards options to the underlying chart engine.
func WithChartOptions(opts ...chart.Option) Option {
	return func(v *View) { v.chartOpts = append(v.chartOpts, opts...) }
}

// WithFields restricts the rendered series to the named dataset fields.
func WithFields(fields ...string) Option {
	return func(v *View) { v.fields = fields }
}

// NewView creates a chart view over the given dataset.
func NewView(log core.Logger, ds *dataset.Dataset, options ...Option) (*View, error) {
	v := &View{
		port:          8080,
		width:         960,
		height:        540,
		frameInterval: 16 * time.Millisecond,
		log:           log,
		ds:            ds,
	}

	// Apply all options
	for _, option := range options {
		option(v)
	}

	// Parse page template
	var err error
	v.indexHTML, err = template.ParseFS(staticFiles, "assets/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	// Read and transpile the client script
	clientJS, err := staticFiles.ReadFile("assets/js/main.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read main.js: %w", err)
	}

	transpiled := api.Transform(string(clientJS), api.TransformOptions{
		Loader:            api.LoaderJS,
		Target:            api.ES2015,
		MinifySyntax:      !v.debug,
		MinifyIdentifiers: !v.debug,
		MinifyWhitespace:  !v.debug,
	})
	if len(transpiled.Errors) > 0 {
		return nil, fmt.Errorf("client script failed with: %v", transpiled.Errors)
	}
	v.scriptContent = string(transpiled.Code)

	v.wsManager = NewWebSocketManager(log, v.dispatchPointer)

	opts := append([]chart.Option{
		chart.WithTooltip(&wsTooltip{manager: v.wsManager}),
	}, v.chartOpts...)
	v.chart = chart.New(log, opts...)
	v.doc = svg.NewDocument(v.width, v.height)

	return v, nil
}

// GetPort returns the configured port
func (v *View) GetPort() int { return v.port }

// GetWSManager returns the WebSocket manager
func (v *View) GetWSManager() *WebSocketManager { return v.wsManager }

// config assembles the render config for the current dataset. Callers
// hold the mutex.
func (v *View) config() (chart.Config, error) {
	return v.ds.Config(v.fields...)
}

// render performs a full chart pass and marks the surface dirty on
// success. Callers hold the mutex.
func (v *View) render() error {
	cfg, err := v.config()
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrConfiguration, err)
	}
	if err := v.chart.Render(v.doc, cfg); err != nil {
		return err
	}
	v.dirty = true
	v.lastUpdate = time.Now()
	return nil
}

// SetDataset swaps the data under the view and re-renders. The failed
// swap keeps the previous dataset on screen.
func (v *View) SetDataset(ds *dataset.Dataset, fields ...string) error {
	v.Lock()
	defer v.Unlock()

	prev, prevFields := v.ds, v.fields
	v.ds, v.fields = ds, fields
	if err := v.render(); err != nil {
		v.ds, v.fields = prev, prevFields
		return err
	}
	return nil
}

// dispatchPointer feeds a browser pointer event into the cursor
// controller.
func (v *View) dispatchPointer(ev PointerEvent) {
	v.Lock()
	defer v.Unlock()

	cursor := v.chart.Cursor()
	switch ev.Type {
	case "move":
		cursor.PointerMove(ev.X, ev.Y)
	case "leave":
		cursor.PointerLeave()
	case "enter-marker":
		cursor.MarkerEnter(ev.Label)
	case "leave-marker":
		cursor.MarkerLeave()
	default:
		v.log.Debug("ignoring unknown pointer event: ", ev.Type)
		return
	}
	v.dirty = true
}

// Run renders the initial frame and drives transitions until the
// context is canceled. Frames are pushed to clients only when the
// surface changed since the last tick.
func (v *View) Run(ctx context.Context) error {
	v.Lock()
	err := v.render()
	v.Unlock()
	if err != nil {
		return err
	}

	ticker := time.NewTicker(v.frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			v.step(now)
		}
	}
}

func (v *View) step(now time.Time) {
	v.Lock()
	wasAnimating := v.animating
	v.animating = v.chart.Step(now)
	push := v.dirty || v.animating || wasAnimating
	v.dirty = false
	var frame string
	if push {
		frame = v.doc.String()
	}
	v.Unlock()

	if push {
		v.wsManager.Broadcast(WebSocketMessage{
			Type:    "frame",
			Payload: map[string]any{"svg": frame},
		})
	}
}

// wsTooltip pushes tooltip lifecycle messages to the connected clients.
type wsTooltip struct {
	manager *WebSocketManager
}

func (t *wsTooltip) Show(row chart.Row, anchor *svg.Element) {
	payload := map[string]any{}
	if rec, ok := row.(dataset.Record); ok {
		payload["time"] = rec.At.Format(time.RFC3339)
		payload["values"] = rec.Values
	}
	if anchor != nil {
		payload["x"] = anchor.Attr("cx")
		payload["y"] = anchor.Attr("cy")
	}
	t.manager.Broadcast(WebSocketMessage{Type: "tooltip", Payload: payload})
}

func (t *wsTooltip) Hide() {
	t.manager.Broadcast(WebSocketMessage{Type: "tooltipHide", Payload: nil})
}
