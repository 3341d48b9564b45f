/*
Package observability turns engine lifecycle events into logs and metrics.

LoggingHooks writes one structured record per event, Metrics exports
Prometheus counters and a duration histogram, and Combine fans a single
LifecycleHooks value out to several consumers.
*/
package observability
