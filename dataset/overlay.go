package dataset

import (
	"fmt"

	"github.com/markcheno/go-talib"
)

// AddSMA derives a simple moving average of field over period records
// and stores it as a new field. Returns the derived field name.
func (d *Dataset) AddSMA(field string, period int) (string, error) {
	return d.addOverlay(fmt.Sprintf("SMA(%d) %s", period, field), field, period, talib.Sma)
}

// AddEMA derives an exponential moving average of field over period
// records and stores it as a new field. Returns the derived field name.
func (d *Dataset) AddEMA(field string, period int) (string, error) {
	return d.addOverlay(fmt.Sprintf("EMA(%d) %s", period, field), field, period, talib.Ema)
}

func (d *Dataset) addOverlay(name, field string, period int, fn func([]float64, int) []float64) (string, error) {
	if period < 1 {
		return "", fmt.Errorf("period must be positive, got %d", period)
	}
	if period > len(d.Records) {
		return "", fmt.Errorf("period %d exceeds dataset length %d", period, len(d.Records))
	}

	known := false
	for _, f := range d.Fields {
		if f == field {
			known = true
		}
		if f == name {
			return "", fmt.Errorf("field %q already exists", name)
		}
	}
	if !known {
		return "", fmt.Errorf("unknown field %q", field)
	}

	derived := fn(d.Column(field), period)

	// The warmup window has no defined average. Backfilling the first
	// computed value keeps the chart's value domain unaffected.
	for i := 0; i < period-1 && i < len(derived); i++ {
		derived[i] = derived[period-1]
	}

	for i := range d.Records {
		d.Records[i].Values[name] = derived[i]
	}
	d.Fields = append(d.Fields, name)
	return name, nil
}
