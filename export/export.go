// Package export renders chart snapshots to downloadable documents.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/raykavin/timechart/chart"
	"github.com/raykavin/timechart/core"
)

// Exporter produces a self-contained snapshot of a chart config.
type Exporter interface {
	// Ext is the file extension without the dot, e.g. "svg".
	Ext() string

	// Export renders cfg and writes the encoded document to w.
	Export(w io.Writer, cfg chart.Config) error
}

// Filename builds the conventional download name for an export,
// time-chart-<date>.<ext> with the date in ISO form.
func Filename(clock core.Clock, ext string) string {
	return fmt.Sprintf("time-chart-%s.%s", clock.Now().Format("2006-01-02"), ext)
}

// ToFile exports cfg into dir using the conventional filename and
// returns the written path.
func ToFile(e Exporter, clock core.Clock, dir string, cfg chart.Config) (string, error) {
	path := filepath.Join(dir, Filename(clock, e.Ext()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create %s: %v", core.ErrResource, path, err)
	}
	defer f.Close()

	if err := e.Export(f, cfg); err != nil {
		return "", err
	}
	return path, nil
}
