package statshub

import (
	"statshub-collector/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("scrapers/statshub")
var meter = otel.Meter("scrapers/statshub")

// noDataCount records positions that ended a scan without data, so a site
// layout change shows up as a step in a graph instead of silence.
var noDataCount, _ = meter.Int64Counter("position_no_data")

var httpInstrumentOutput restyutil.InstrumentOutput

// SetHttpInstrumentOutput mirrors request/response dumps from the HTTP
// discovery fallback into the given output. Must be called before
// NewHttpDiscovery to take effect.
func SetHttpInstrumentOutput(out restyutil.InstrumentOutput) {
	httpInstrumentOutput = out
}
