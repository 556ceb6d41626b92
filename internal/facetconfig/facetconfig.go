// Package facetconfig holds the Options/DefaultOptions pattern used by the
// ordinal counting engine (sortedsetfacets): the density heuristic threshold
// and a logger, plus a default topN for callers that do not pick one.
package facetconfig

import "log/slog"

// DefaultDensityThreshold is the default divisor in the C5 density heuristic:
// remap-on-the-fly is chosen when hits.totalHits < numSegOrds / DensityThreshold.
const DefaultDensityThreshold = 10

// DefaultTopN is available to callers that do not pick a specific topN;
// engines never apply it themselves — topN is always an explicit, validated
// caller input.
const DefaultTopN = 10

// Options holds the knobs of the ordinal counting engine; sortedsetfacets
// embeds it in its own Options. facetsetcounts and rangeonrange take no
// Options.
type Options struct {
	// DensityThreshold is the divisor used by the C5 density heuristic.
	// Lower values favor the sparse remap-on-the-fly strategy more often;
	// higher values favor the dense segCounts[] strategy.
	DensityThreshold int

	// Logger receives a Warn-level notice on reader mismatch before the
	// error is returned. Defaults to slog.Default() when nil.
	Logger *slog.Logger
}

// DefaultOptions returns the zero-configuration Options: the default
// density divisor and the process-wide default logger.
func DefaultOptions() Options {
	return Options{
		DensityThreshold: DefaultDensityThreshold,
		Logger:           slog.Default(),
	}
}

// Log returns o.Logger, or slog.Default() if unset.
func (o Options) Log() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
