package web

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/raykavin/timechart/core"
	"github.com/raykavin/timechart/dataset"
	logz "github.com/raykavin/timechart/logger/zerolog"
)

const sampleCSV = `time,close,volume
2023-01-01,100,10
2023-01-02,120,15
2023-01-03,80,20
2023-01-04,95,12
`

func nopLogger() core.Logger {
	l := zerolog.Nop()
	return logz.NewAdapter(&l)
}

// routeRecorder captures handler registrations without opening sockets.
type routeRecorder struct {
	handlers map[string]http.HandlerFunc
	files    map[string]http.FileSystem
}

func newRouteRecorder() *routeRecorder {
	return &routeRecorder{
		handlers: make(map[string]http.HandlerFunc),
		files:    make(map[string]http.FileSystem),
	}
}

func (r *routeRecorder) RegisterHandler(path string, handler http.HandlerFunc) {
	r.handlers[path] = handler
}

func (r *routeRecorder) RegisterFileServer(path string, fs http.FileSystem) {
	r.files[path] = fs
}

func (r *routeRecorder) Start(int) error { return nil }

func newTestView(t *testing.T, opts ...Option) *View {
	t.Helper()
	ds, err := dataset.FromCSV(strings.NewReader(sampleCSV), "prices", "time")
	require.NoError(t, err)

	view, err := NewView(nopLogger(), ds, opts...)
	require.NoError(t, err)
	return view
}

func TestNewView_TranspilesClientScript(t *testing.T) {
	view := newTestView(t)
	require.NotEmpty(t, view.scriptContent)
}

func TestRegisterHandlers_Routes(t *testing.T) {
	view := newTestView(t)

	rec := newRouteRecorder()
	view.RegisterHandlers(rec)

	for _, route := range []string{"/", "/health", "/data", "/export", "/ws"} {
		require.Contains(t, rec.handlers, route)
	}
	require.Contains(t, rec.files, "/assets/")
}

func TestHandleIndex_RendersPage(t *testing.T) {
	view := newTestView(t)

	w := httptest.NewRecorder()
	view.handleIndex(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, "prices")
	require.Contains(t, body, `id="surface"`)
}

func TestHandleHealth(t *testing.T) {
	view := newTestView(t)

	// Nothing rendered yet, so the view reports unavailable.
	w := httptest.NewRecorder()
	view.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	view.Lock()
	require.NoError(t, view.render())
	view.Unlock()

	w = httptest.NewRecorder()
	view.handleHealth(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandleDatasetDownload_CSV(t *testing.T) {
	view := newTestView(t)

	w := httptest.NewRecorder()
	view.handleDatasetDownload(w, httptest.NewRequest(http.MethodGet, "/data", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Equal(t, "time,close,volume", lines[0])
	require.Len(t, lines, 5)
}

func TestHandleExport_SVG(t *testing.T) {
	view := newTestView(t)

	w := httptest.NewRecorder()
	view.handleExport(w, httptest.NewRequest(http.MethodGet, "/export?format=svg", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "time-chart-")
	require.Contains(t, w.Header().Get("Content-Disposition"), ".svg")
	require.Contains(t, w.Body.String(), "series-line")
}

func TestHandleExport_UnsupportedFormat(t *testing.T) {
	view := newTestView(t)

	w := httptest.NewRecorder()
	view.handleExport(w, httptest.NewRequest(http.MethodGet, "/export?format=gif", nil))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatchPointer_TracksAndLeaves(t *testing.T) {
	view := newTestView(t)

	view.Lock()
	require.NoError(t, view.render())
	view.Unlock()
	view.dirty = false

	view.dispatchPointer(PointerEvent{Type: "move", X: 480, Y: 270})
	require.True(t, view.dirty)
	require.GreaterOrEqual(t, view.chart.Cursor().ActiveIndex(), 0)

	view.dispatchPointer(PointerEvent{Type: "leave"})
	require.Equal(t, -1, view.chart.Cursor().ActiveIndex())
}
