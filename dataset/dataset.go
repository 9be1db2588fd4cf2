// Package dataset loads multi-series time-value data from CSV sources
// and adapts it to the chart engine's accessor-based config.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/raykavin/timechart/chart"
	"github.com/raykavin/timechart/core"
)

// ErrNoRows is returned when a source contains headers but no data.
var ErrNoRows = errors.New("dataset has no rows")

// timeLayouts are tried in order when parsing the time column. Plain
// integers are treated as unix seconds.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Record is one loaded row: a timestamp plus one value per field.
type Record struct {
	At     time.Time
	Values map[string]float64
}

// Dataset is an ordered collection of records sharing a field set.
// Records are kept sorted by ascending time, which the chart engine
// requires for nearest-point lookup.
type Dataset struct {
	Name      string
	TimeField string
	Fields    []string
	Records   []Record
}

// FromFile loads a dataset from a CSV file. The base name becomes the
// dataset name.
func FromFile(path, timeField string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return FromCSV(f, path, timeField)
}

// FromCSV loads a dataset from CSV content. The first line must be a
// header row containing timeField; every other column is parsed as a
// float64 series.
func FromCSV(r io.Reader, name, timeField string) (*Dataset, error) {
	lines, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(lines) < 1 {
		return nil, ErrNoRows
	}

	header := lines[0]
	timeIdx := -1
	var fields []string
	fieldIdx := make(map[string]int)
	for i, h := range header {
		if h == timeField {
			timeIdx = i
			continue
		}
		fields = append(fields, h)
		fieldIdx[h] = i
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("time column %q not found in header", timeField)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("no value columns besides %q", timeField)
	}
	if len(lines) < 2 {
		return nil, ErrNoRows
	}

	records := make([]Record, 0, len(lines)-1)
	for n, line := range lines[1:] {
		at, err := parseTime(line[timeIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}

		values := make(map[string]float64, len(fields))
		for _, field := range fields {
			v, err := strconv.ParseFloat(line[fieldIdx[field]], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", n+1, field, err)
			}
			values[field] = v
		}
		records = append(records, Record{At: at, Values: values})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].At.Before(records[j].At)
	})

	return &Dataset{
		Name:      name,
		TimeField: timeField,
		Fields:    fields,
		Records:   records,
	}, nil
}

func parseTime(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time value %q", s)
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// Column returns a field's values in record order.
func (d *Dataset) Column(field string) core.Series[float64] {
	out := make([]float64, len(d.Records))
	for i, rec := range d.Records {
		out[i] = rec.Values[field]
	}
	return out
}

// Rows adapts the records to the chart engine's opaque row type.
func (d *Dataset) Rows() []chart.Row {
	rows := make([]chart.Row, len(d.Records))
	for i := range d.Records {
		rows[i] = d.Records[i]
	}
	return rows
}

// TimeAccessor returns the accessor extracting the record timestamp.
func (d *Dataset) TimeAccessor() chart.TimeAccessor {
	return func(r chart.Row) time.Time { return r.(Record).At }
}

// SeriesFor builds one chart series per named field, labeled by field
// name. Unknown fields yield an error rather than a zero series.
func (d *Dataset) SeriesFor(fields ...string) ([]chart.Series, error) {
	if len(fields) == 0 {
		fields = d.Fields
	}

	known := make(map[string]bool, len(d.Fields))
	for _, f := range d.Fields {
		known[f] = true
	}

	series := make([]chart.Series, len(fields))
	for i, field := range fields {
		if !known[field] {
			return nil, fmt.Errorf("unknown field %q", field)
		}
		field := field
		series[i] = chart.Series{
			Label:    field,
			Accessor: func(r chart.Row) float64 { return r.(Record).Values[field] },
		}
	}
	return series, nil
}

// Config assembles a complete render config over the chosen fields.
func (d *Dataset) Config(fields ...string) (chart.Config, error) {
	series, err := d.SeriesFor(fields...)
	if err != nil {
		return chart.Config{}, err
	}
	return chart.Config{
		Data:   d.Rows(),
		Time:   d.TimeAccessor(),
		Series: series,
	}, nil
}

// Stored converts the dataset to its columnar persisted form.
func (d *Dataset) Stored() *core.StoredDataset {
	times := make([]time.Time, len(d.Records))
	values := make(map[string][]float64, len(d.Fields))
	for _, field := range d.Fields {
		values[field] = d.Column(field)
	}
	for i, rec := range d.Records {
		times[i] = rec.At
	}
	return &core.StoredDataset{
		Name:      d.Name,
		TimeField: d.TimeField,
		Fields:    d.Fields,
		Times:     times,
		Values:    values,
		UpdatedAt: time.Now(),
	}
}

// FromStored rebuilds a dataset from its persisted form.
func FromStored(sd *core.StoredDataset) *Dataset {
	records := make([]Record, len(sd.Times))
	for i, at := range sd.Times {
		values := make(map[string]float64, len(sd.Fields))
		for _, field := range sd.Fields {
			if col := sd.Values[field]; i < len(col) {
				values[field] = col[i]
			}
		}
		records[i] = Record{At: at, Values: values}
	}
	return &Dataset{
		Name:      sd.Name,
		TimeField: sd.TimeField,
		Fields:    sd.Fields,
		Records:   records,
	}
}
