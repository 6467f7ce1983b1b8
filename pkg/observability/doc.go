/*
Package observability provides tools for monitoring the waymark engine.

Metrics turns lifecycle events into Prometheus collectors, and LoggingHooks writes
them as structured log lines. Both return domain.LifecycleHooks, which combine
with domain.LifecycleHooks.Merge.
*/
package observability
