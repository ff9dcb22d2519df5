/*
Package observability turns engine lifecycle events into Prometheus metrics
and structured log records.

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	eng := modfsm.New(modfsm.WithLifecycleHooks(metrics.Hooks()))
*/
package observability
