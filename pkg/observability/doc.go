/*
Package observability exports composition metrics to Prometheus.

Metrics.Hooks returns domain.ComposeHooks that count compositions by outcome and
record their duration, result size and rejected transition pairs. Pass them to
fsnt.WithHooks or compose.WithHooks.
*/
package observability
