package web

import (
	"bytes"
	"encoding/csv"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/raykavin/timechart/core"
	"github.com/raykavin/timechart/dataset"
	"github.com/raykavin/timechart/export"
)

// RegisterHandlers registers all necessary handlers on the HTTP server
func (v *View) RegisterHandlers(server HTTPServer) {
	server.RegisterFileServer("/assets/", http.FS(staticFiles))

	server.RegisterHandler("/health", v.handleHealth)
	server.RegisterHandler("/data", v.handleDatasetDownload)
	server.RegisterHandler("/export", v.handleExport)
	server.RegisterHandler("/ws", v.wsManager.HandleWebSocket)
	server.RegisterHandler("/", v.handleIndex)
}

// handleHealth handles health check requests
func (v *View) handleHealth(w http.ResponseWriter, _ *http.Request) {
	v.Lock()
	last := v.lastUpdate
	v.Unlock()

	// unhealthy if nothing rendered in more than 10 minutes
	if time.Since(last) > 10*time.Minute {
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte(last.String())); err != nil {
			v.log.Error("Failed to write health status: ", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleIndex handles the main page request
func (v *View) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Switch dataset when one is requested and storage is available
	if name := r.URL.Query().Get("dataset"); name != "" && v.store != nil {
		if err := v.switchDataset(r, name); err != nil {
			v.log.Error("Dataset switch failed: ", err)
			http.Error(w, "Dataset not found", http.StatusNotFound)
			return
		}
	}

	var names []string
	if v.store != nil {
		stored, err := v.store.Datasets(r.Context())
		if err != nil {
			v.log.Error("Failed to list datasets: ", err)
		} else {
			names = stored
		}
	}

	v.Lock()
	current := v.ds.Name
	v.Unlock()

	w.Header().Set("Content-Type", "text/html")
	err := v.indexHTML.Execute(w, map[string]any{
		"name":     current,
		"datasets": names,
		"width":    v.width,
		"height":   v.height,
		"script":   template.JS(v.scriptContent),
	})
	if err != nil {
		v.log.Error("Template execution failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (v *View) switchDataset(r *http.Request, name string) error {
	v.Lock()
	current := v.ds.Name
	v.Unlock()
	if name == current {
		return nil
	}

	stored, err := v.store.Dataset(r.Context(), name)
	if err != nil {
		return err
	}
	return v.SetDataset(dataset.FromStored(stored))
}

// handleDatasetDownload handles CSV export of the current dataset
func (v *View) handleDatasetDownload(w http.ResponseWriter, _ *http.Request) {
	v.Lock()
	ds := v.ds
	v.Unlock()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename="+ds.Name+".csv")
	w.Header().Set("Transfer-Encoding", "chunked")

	buffer := bytes.NewBuffer(nil)
	csvWriter := csv.NewWriter(buffer)

	header := append([]string{ds.TimeField}, ds.Fields...)
	if err := csvWriter.Write(header); err != nil {
		v.log.Error("Failed writing CSV header: ", err)
		http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
		return
	}

	for _, rec := range ds.Records {
		line := make([]string, 0, len(header))
		line = append(line, rec.At.Format(time.RFC3339))
		for _, field := range ds.Fields {
			line = append(line, strconv.FormatFloat(rec.Values[field], 'f', -1, 64))
		}
		if err := csvWriter.Write(line); err != nil {
			v.log.Error("Failed writing CSV data: ", err)
			http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
			return
		}
	}
	csvWriter.Flush()

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buffer.Bytes()); err != nil {
		v.log.Error("Failed writing CSV response: ", err)
	}
}

// handleExport streams a chart snapshot as a download. The format query
// parameter picks the encoder; the filename follows the date-stamped
// convention.
func (v *View) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}

	var (
		exporter    export.Exporter
		contentType string
	)
	switch format {
	case "svg":
		exporter = export.NewSVG(v.log, v.width, v.height, v.chartOpts...)
		contentType = "image/svg+xml"
	case "png":
		ratio := 1.0
		if s := r.URL.Query().Get("scale"); s != "" {
			if parsed, err := strconv.ParseFloat(s, 64); err == nil {
				ratio = parsed
			}
		}
		exporter = export.NewPNG(v.log, int(v.width), int(v.height), ratio)
		contentType = "image/png"
	default:
		http.Error(w, "Unsupported format", http.StatusBadRequest)
		return
	}

	v.Lock()
	cfg, err := v.config()
	v.Unlock()
	if err != nil {
		v.log.Error("Export failed: ", err)
		http.Error(w, "Failed to assemble chart", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, cfg); err != nil {
		v.log.Error("Export failed: ", err)
		http.Error(w, "Failed to export chart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		"attachment;filename="+export.Filename(core.RealClock(), exporter.Ext()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		v.log.Error("Failed writing export response: ", err)
	}
}
