package web

import (
	"context"
	"fmt"

	"github.com/raykavin/timechart/core"
)

// ChartServer combines a chart view with an HTTP server.
type ChartServer struct {
	view   *View
	server HTTPServer
	log    core.Logger
}

// NewChartServer creates a new ChartServer
func NewChartServer(view *View, server HTTPServer, log core.Logger) *ChartServer {
	return &ChartServer{
		view:   view,
		server: server,
		log:    log,
	}
}

// Start registers the view's routes, starts the frame loop and serves
// HTTP until the listener fails.
func (cs *ChartServer) Start(ctx context.Context) error {
	cs.view.RegisterHandlers(cs.server)

	go func() {
		if err := cs.view.Run(ctx); err != nil && err != context.Canceled {
			cs.log.Error("Frame loop stopped: ", err)
		}
	}()

	port := cs.view.GetPort()
	fmt.Printf("Chart available at http://localhost:%d\n", port)
	return cs.server.Start(port)
}
