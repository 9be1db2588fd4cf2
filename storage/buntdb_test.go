package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/raykavin/timechart/core"
)

func storedDataset(name string, updated time.Time) *core.StoredDataset {
	return &core.StoredDataset{
		Name:      name,
		TimeField: "time",
		Fields:    []string{"close"},
		Times: []time.Time{
			time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		},
		Values:    map[string][]float64{"close": {100, 120}},
		UpdatedAt: updated,
	}
}

func TestBuntStorage_SaveAndLoad(t *testing.T) {
	ctx := context.Background()

	st, err := NewFromMemory()
	require.NoError(t, err)
	defer st.Close()

	in := storedDataset("prices", time.Now().UTC())
	require.NoError(t, st.SaveDataset(ctx, in))

	out, err := st.Dataset(ctx, "prices")
	require.NoError(t, err)
	require.Equal(t, in.Fields, out.Fields)
	require.Equal(t, in.Values["close"], out.Values["close"])
	require.True(t, in.Times[0].Equal(out.Times[0]))
}

func TestBuntStorage_MissingDataset(t *testing.T) {
	st, err := NewFromMemory()
	require.NoError(t, err)
	defer st.Close()

	_, err = st.Dataset(context.Background(), "nope")
	require.ErrorIs(t, err, core.ErrResource)
}

func TestBuntStorage_SaveReplaces(t *testing.T) {
	ctx := context.Background()

	st, err := NewFromMemory()
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.SaveDataset(ctx, storedDataset("prices", time.Now().UTC())))

	updated := storedDataset("prices", time.Now().UTC())
	updated.Values["close"] = []float64{80, 95}
	require.NoError(t, st.SaveDataset(ctx, updated))

	out, err := st.Dataset(ctx, "prices")
	require.NoError(t, err)
	require.Equal(t, []float64{80, 95}, out.Values["close"])

	names, err := st.Datasets(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"prices"}, names)
}

func TestBuntStorage_ListsByUpdateTime(t *testing.T) {
	ctx := context.Background()

	st, err := NewFromMemory()
	require.NoError(t, err)
	defer st.Close()

	base := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, st.SaveDataset(ctx, storedDataset("newer", base.Add(time.Hour))))
	require.NoError(t, st.SaveDataset(ctx, storedDataset("older", base)))

	names, err := st.Datasets(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"older", "newer"}, names)
}
