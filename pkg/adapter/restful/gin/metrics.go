// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gin

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP level Prometheus metrics of one engine.
type Metrics struct {
	reg      *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec

	registrations *prometheus.CounterVec
}

// NewMetrics creates the HTTP metrics and registers them in a fresh
// registry which also contains the Go runtime and process collectors.
// Each engine should use its own Metrics instance, so tests may create
// several engines in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pcweb_http_requests_total",
			Help: "Total number of HTTP requests, labeled by route and status",
		}, []string{"method", "route", "status"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pcweb_http_request_duration_seconds",
			Help:    "Latency of HTTP requests in seconds, labeled by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pcweb_spot_registrations_total",
			Help: "Total number of spot registration attempts, labeled by outcome",
		}, []string{"outcome"}),
	}
}

// ObserveRegistration counts one spot registration attempt.
func (m *Metrics) ObserveRegistration(outcome string) {
	m.registrations.WithLabelValues(outcome).Inc()
}

// Middleware returns a gin middleware which observes all requests.
// Unmatched requests are labeled with the "unmatched" route, so random
// paths may not inflate the metrics cardinality.
func (m *Metrics) Middleware() HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(
			method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.latency.WithLabelValues(method, route).Observe(
			time.Since(start).Seconds(),
		)
	}
}

// Handler returns a handler which exposes the registered metrics in
// the Prometheus text format.
func (m *Metrics) Handler() HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
}
