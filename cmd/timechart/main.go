package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/raykavin/timechart/chart"
	"github.com/raykavin/timechart/core"
	"github.com/raykavin/timechart/dataset"
	"github.com/raykavin/timechart/export"
	"github.com/raykavin/timechart/logger/zerolog"
	"github.com/raykavin/timechart/storage"
	"github.com/raykavin/timechart/web"
)

// Command line flags
var (
	logLevel  string
	timeField string
	fields    []string
	smaPeriod int

	// Serve command flags
	port   int
	dbFile string

	// Fetch command flags
	datasetName string

	// Render command flags
	outputDir  string
	formats    []string
	width      int
	height     int
	pixelScale float64
	curved     bool
	transition string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "timechart",
		Short:   "Interactive time-value charts from CSV data",
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&timeField, "time-field", "t", "time", "Name of the CSV time column")
	rootCmd.PersistentFlags().StringSliceVarP(&fields, "fields", "f", nil, "Value columns to chart (default all)")
	rootCmd.PersistentFlags().IntVar(&smaPeriod, "sma", 0, "Overlay a moving average with the given period")

	rootCmd.AddCommand(buildServeCmd())
	rootCmd.AddCommand(buildRenderCmd())
	rootCmd.AddCommand(buildStatsCmd())
	rootCmd.AddCommand(buildFetchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() (core.Logger, error) {
	return zerolog.New(logLevel, true)
}

// loadDataset reads the CSV argument and applies any requested overlay.
func loadDataset(path string) (*dataset.Dataset, error) {
	ds, err := dataset.FromFile(path, timeField)
	if err != nil {
		return nil, err
	}

	if smaPeriod > 0 {
		base := ds.Fields[0]
		if len(fields) > 0 {
			base = fields[0]
		}
		name, err := ds.AddSMA(base, smaPeriod)
		if err != nil {
			return nil, err
		}
		if len(fields) > 0 {
			fields = append(fields, name)
		}
	}

	return ds, nil
}

func buildServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve <data.csv>",
		Short: "Serve an interactive chart over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE:  runServe,
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP port")
	serveCmd.Flags().StringVar(&dbFile, "db", "", "Dataset database file for the dataset switcher")
	serveCmd.Flags().BoolVar(&curved, "curve", false, "Join points with a monotone curve")
	serveCmd.Flags().StringVar(&transition, "transition", "", "Transition duration, e.g. 750ms")

	return serveCmd
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	ds, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	opts := []web.Option{
		web.WithPort(port),
		web.WithFields(fields...),
		web.WithChartOptions(chartOptions()...),
	}

	if dbFile != "" {
		store, err := storage.NewFromFile(dbFile)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveDataset(cmd.Context(), ds.Stored()); err != nil {
			return err
		}
		opts = append(opts, web.WithDatasetStorage(store))
	}

	view, err := web.NewView(log, ds, opts...)
	if err != nil {
		return err
	}

	server := web.NewChartServer(view, web.NewStandardHTTPServer(), log)
	return server.Start(cmd.Context())
}

func chartOptions() []chart.Option {
	var opts []chart.Option
	if curved {
		opts = append(opts, chart.WithCurve())
	}
	if transition != "" {
		if d, err := chart.ParseDuration(transition); err == nil {
			opts = append(opts, chart.WithTransition(d))
		}
	}
	return opts
}

func buildRenderCmd() *cobra.Command {
	renderCmd := &cobra.Command{
		Use:   "render <data.csv>",
		Short: "Export chart snapshots to files",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}

	renderCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	renderCmd.Flags().StringSliceVar(&formats, "formats", []string{"svg"}, "Export formats (svg, png)")
	renderCmd.Flags().IntVar(&width, "width", 960, "Chart width in pixels")
	renderCmd.Flags().IntVar(&height, "height", 540, "Chart height in pixels")
	renderCmd.Flags().Float64Var(&pixelScale, "scale", 1, "Raster pixel ratio for PNG output")
	renderCmd.Flags().BoolVar(&curved, "curve", false, "Join points with a monotone curve")

	return renderCmd
}

func runRender(_ *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	ds, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	cfg, err := ds.Config(fields...)
	if err != nil {
		return err
	}

	progressBar := progressbar.Default(int64(len(formats)))
	for _, format := range formats {
		var exporter export.Exporter
		switch format {
		case "svg":
			exporter = export.NewSVG(log, float64(width), float64(height), chartOptions()...)
		case "png":
			exporter = export.NewPNG(log, width, height, pixelScale)
		default:
			return fmt.Errorf("unsupported format %q", format)
		}

		path, err := export.ToFile(exporter, core.RealClock(), outputDir, cfg)
		if err != nil {
			return err
		}
		log.Info("wrote ", path)

		if err := progressBar.Add(1); err != nil {
			log.Warnf("update progressbar fail: %v", err)
		}
	}

	return nil
}

func buildFetchCmd() *cobra.Command {
	fetchCmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Download a remote CSV dataset into the dataset database",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetch,
	}

	fetchCmd.Flags().StringVar(&dbFile, "db", "timechart.db", "Dataset database file")
	fetchCmd.Flags().StringVarP(&datasetName, "name", "n", "", "Name to store the dataset under")
	fetchCmd.MarkFlagRequired("name")

	return fetchCmd
}

func runFetch(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}

	ds, err := dataset.Fetch(cmd.Context(), log, args[0], datasetName, timeField)
	if err != nil {
		return err
	}

	store, err := storage.NewFromFile(dbFile)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveDataset(cmd.Context(), ds.Stored()); err != nil {
		return err
	}

	log.Infof("stored dataset %q with %d rows", ds.Name, ds.Len())
	return nil
}

func buildStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats <data.csv>",
		Short: "Print per-field statistics and a value histogram",
		Args:  cobra.ExactArgs(1),
		RunE:  runStats,
	}

	return statsCmd
}

func runStats(_ *cobra.Command, args []string) error {
	ds, err := loadDataset(args[0])
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Count", "Min", "Max", "Mean", "Median", "Std Dev"})

	for _, s := range dataset.Summarize(ds) {
		table.Append([]string{
			s.Field,
			strconv.Itoa(s.Count),
			fmt.Sprintf("%.3f", s.Min),
			fmt.Sprintf("%.3f", s.Max),
			fmt.Sprintf("%.3f", s.Mean),
			fmt.Sprintf("%.3f", s.Median),
			fmt.Sprintf("%.3f", s.StdDev),
		})
	}
	table.Render()

	histFields := fields
	if len(histFields) == 0 {
		histFields = ds.Fields
	}
	for _, field := range histFields {
		fmt.Printf("\n--- %s ---\n", field)
		hist := histogram.Hist(15, ds.Column(field))
		if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(10)); err != nil {
			return err
		}
	}

	return nil
}
