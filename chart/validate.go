package chart

import (
	"fmt"

	"github.com/raykavin/timechart/core"
)

// InvalidReason enumerates why a config was rejected.
type InvalidReason int

const (
	ReasonValid InvalidReason = iota
	ReasonNoData
	ReasonNoSeries
	ReasonBadSeriesSpec
	ReasonDuplicateLabel
	ReasonNoTimeAccessor
	ReasonNoColorAssigner
)

func (r InvalidReason) String() string {
	switch r {
	case ReasonValid:
		return "valid"
	case ReasonNoData:
		return "data is empty"
	case ReasonNoSeries:
		return "no series configured"
	case ReasonBadSeriesSpec:
		return "series spec is missing a label or accessor"
	case ReasonDuplicateLabel:
		return "duplicate series label"
	case ReasonNoTimeAccessor:
		return "time accessor is not set"
	case ReasonNoColorAssigner:
		return "color assigner is not set"
	default:
		return "unknown"
	}
}

// validate checks the per-render config in a fixed order: data, series
// specs, time accessor, color assigner. It returns the first failure.
func validate(cfg Config, colors ColorAssigner) (InvalidReason, error) {
	if len(cfg.Data) == 0 {
		return ReasonNoData, fmt.Errorf("%w: %s", core.ErrConfiguration, ReasonNoData)
	}

	if len(cfg.Series) == 0 {
		return ReasonNoSeries, fmt.Errorf("%w: %s", core.ErrConfiguration, ReasonNoSeries)
	}

	seen := make(map[string]struct{}, len(cfg.Series))
	for _, s := range cfg.Series {
		if s.Label == "" || s.Accessor == nil {
			return ReasonBadSeriesSpec, fmt.Errorf("%w: %s", core.ErrConfiguration, ReasonBadSeriesSpec)
		}
		if _, dup := seen[s.Label]; dup {
			return ReasonDuplicateLabel, fmt.Errorf("%w: %s %q", core.ErrConfiguration, ReasonDuplicateLabel, s.Label)
		}
		seen[s.Label] = struct{}{}
	}

	if cfg.Time == nil {
		return ReasonNoTimeAccessor, fmt.Errorf("%w: %s", core.ErrConfiguration, ReasonNoTimeAccessor)
	}

	// Legend and series rendering must agree on colors across passes,
	// which requires domain/range introspection on the assigner.
	if colors == nil {
		return ReasonNoColorAssigner, fmt.Errorf("%w: %s", core.ErrConfiguration, ReasonNoColorAssigner)
	}

	return ReasonValid, nil
}
