package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleCSV = `time,close,volume
2023-01-02,120,15
2023-01-01,100,10
2023-01-03,80,20
2023-01-04,95,12
`

func loadSample(t *testing.T) *Dataset {
	t.Helper()
	ds, err := FromCSV(strings.NewReader(sampleCSV), "sample", "time")
	require.NoError(t, err)
	return ds
}

func TestFromCSV_ParsesAndSortsByTime(t *testing.T) {
	ds := loadSample(t)

	require.Equal(t, "sample", ds.Name)
	require.Equal(t, []string{"close", "volume"}, ds.Fields)
	require.Equal(t, 4, ds.Len())

	// Rows are re-sorted ascending even though the source interleaves.
	require.Equal(t, []float64{100, 120, 80, 95}, ds.Column("close").Values())
	require.Equal(t, 95.0, ds.Column("close").Last(0))
	for i := 1; i < ds.Len(); i++ {
		require.True(t, ds.Records[i-1].At.Before(ds.Records[i].At))
	}
}

func TestFromCSV_Errors(t *testing.T) {
	_, err := FromCSV(strings.NewReader("time,close\n"), "x", "time")
	require.ErrorIs(t, err, ErrNoRows)

	_, err = FromCSV(strings.NewReader("date,close\n2023-01-01,1\n"), "x", "time")
	require.ErrorContains(t, err, `time column "time" not found`)

	_, err = FromCSV(strings.NewReader("time\n2023-01-01\n"), "x", "time")
	require.ErrorContains(t, err, "no value columns")

	_, err = FromCSV(strings.NewReader("time,close\n2023-01-01,abc\n"), "x", "time")
	require.ErrorContains(t, err, `column "close"`)

	_, err = FromCSV(strings.NewReader("time,close\nyesterday,1\n"), "x", "time")
	require.ErrorContains(t, err, "unparseable time")
}

func TestParseTime_AcceptedForms(t *testing.T) {
	for _, input := range []string{
		"2023-01-05",
		"2023-01-05T10:30:00",
		"2023-01-05 10:30:00",
		"2023-01-05T10:30:00Z",
		"1672914600",
	} {
		at, err := parseTime(input)
		require.NoError(t, err, input)
		require.Equal(t, 2023, at.Year(), input)
	}
}

func TestConfig_AccessorsReadRecords(t *testing.T) {
	ds := loadSample(t)

	cfg, err := ds.Config("close")
	require.NoError(t, err)
	require.Len(t, cfg.Series, 1)
	require.Equal(t, "close", cfg.Series[0].Label)
	require.Len(t, cfg.Data, 4)

	require.Equal(t, 100.0, cfg.Series[0].Accessor(cfg.Data[0]))
	require.Equal(t,
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		cfg.Time(cfg.Data[0]))

	_, err = ds.Config("open")
	require.ErrorContains(t, err, `unknown field "open"`)
}

func TestConfig_DefaultsToAllFields(t *testing.T) {
	ds := loadSample(t)

	cfg, err := ds.Config()
	require.NoError(t, err)
	require.Len(t, cfg.Series, 2)
	require.Equal(t, "close", cfg.Series[0].Label)
	require.Equal(t, "volume", cfg.Series[1].Label)
}

func TestStoredRoundTrip(t *testing.T) {
	ds := loadSample(t)

	back := FromStored(ds.Stored())
	require.Equal(t, ds.Name, back.Name)
	require.Equal(t, ds.Fields, back.Fields)
	require.Equal(t, ds.Column("close").Values(), back.Column("close").Values())
	require.Equal(t, ds.Records[0].At, back.Records[0].At)
}

func TestSummarize(t *testing.T) {
	ds := loadSample(t)

	stats := Summarize(ds)
	require.Len(t, stats, 2)

	closeStats := stats[0]
	require.Equal(t, "close", closeStats.Field)
	require.Equal(t, 4, closeStats.Count)
	require.Equal(t, 80.0, closeStats.Min)
	require.Equal(t, 120.0, closeStats.Max)
	require.InDelta(t, 98.75, closeStats.Mean, 1e-9)
	require.Greater(t, closeStats.StdDev, 0.0)
}

func TestAddSMA(t *testing.T) {
	ds := loadSample(t)

	name, err := ds.AddSMA("close", 2)
	require.NoError(t, err)
	require.Equal(t, "SMA(2) close", name)
	require.Contains(t, ds.Fields, name)

	// close = 100, 120, 80, 95; warmup backfills the first average.
	require.Equal(t, []float64{110, 110, 100, 87.5}, ds.Column(name).Values())
}

func TestAddOverlay_Errors(t *testing.T) {
	ds := loadSample(t)

	_, err := ds.AddSMA("open", 2)
	require.ErrorContains(t, err, `unknown field "open"`)

	_, err = ds.AddSMA("close", 0)
	require.ErrorContains(t, err, "period must be positive")

	_, err = ds.AddSMA("close", 99)
	require.ErrorContains(t, err, "exceeds dataset length")

	_, err = ds.AddSMA("close", 2)
	require.NoError(t, err)
	_, err = ds.AddSMA("close", 2)
	require.ErrorContains(t, err, "already exists")
}

func TestAddEMA(t *testing.T) {
	ds := loadSample(t)

	name, err := ds.AddEMA("close", 3)
	require.NoError(t, err)
	require.Len(t, ds.Column(name), ds.Len())
}
