package tally

import (
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewRootScope),
)

// PrometheusModule reports the root scope to prometheus and serves it over HTTP.
var PrometheusModule = fx.Options(
	fx.Provide(NewPrometheusReporter),
	fx.Invoke(RegisterMetricsServer),
)
