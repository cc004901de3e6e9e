// Copyright 2026 Blink Labs Software
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/blinklabs-io/dgcpow/internal/config"
	"github.com/blinklabs-io/dgcpow/pow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dgcpow"

// Metrics collects retarget and header acceptance statistics. It satisfies
// pow.Observer.
type Metrics struct {
	registry            *prometheus.Registry
	retargets           *prometheus.CounterVec
	insufficientHistory *prometheus.CounterVec
	nextBits            *prometheus.GaugeVec
	targetBitLen        *prometheus.GaugeVec
	actualTimespan      *prometheus.GaugeVec
	headers             *prometheus.CounterVec
	tipHeight           prometheus.Gauge
}

// Singleton metrics instance
var globalMetrics = New()

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		retargets: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retargets_total",
				Help:      "Retarget computations by rule and algorithm",
			},
			[]string{"kind", "algo", "retargeted"},
		),
		insufficientHistory: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retarget_insufficient_history_total",
				Help:      "Averaging retargets that fell back to the limit",
			},
			[]string{"algo"},
		),
		nextBits: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "next_bits",
				Help:      "Most recently computed compact target",
			},
			[]string{"algo"},
		),
		targetBitLen: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "next_target_bitlen",
				Help:      "Bit length of the most recently computed target",
			},
			[]string{"algo"},
		),
		actualTimespan: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "actual_timespan_seconds",
				Help:      "Clamped actual timespan of the last retarget",
			},
			[]string{"kind", "algo"},
		),
		headers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "headers_total",
				Help:      "Submitted headers by result",
			},
			[]string{"result", "reason"},
		),
		tipHeight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tip_height",
				Help:      "Height of the chain tip",
			},
		),
	}
}

func (m *Metrics) ObserveRetarget(ev pow.RetargetEvent) {
	algo := ev.Algo.String()
	m.retargets.WithLabelValues(
		string(ev.Kind),
		algo,
		fmt.Sprint(ev.Retargeted),
	).Inc()
	if ev.InsufficientHistory {
		m.insufficientHistory.WithLabelValues(algo).Inc()
	}
	m.nextBits.WithLabelValues(algo).Set(float64(ev.NewBits))
	if !ev.After.IsZero() {
		m.targetBitLen.WithLabelValues(algo).Set(float64(ev.After.BitLen()))
	}
	if ev.Retargeted {
		m.actualTimespan.WithLabelValues(string(ev.Kind), algo).
			Set(float64(ev.ActualTimespan))
	}
}

// ObserveHeader counts a header submission. The reason is empty for
// accepted headers.
func (m *Metrics) ObserveHeader(accepted bool, reason string) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	m.headers.WithLabelValues(result, reason).Inc()
}

func (m *Metrics) SetTipHeight(height int64) {
	m.tipHeight.Set(float64(height))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Start serves the metrics endpoint on the configured listener
func (m *Metrics) Start() error {
	cfg := config.GetConfig()
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr: fmt.Sprintf(
			"%s:%d",
			cfg.Metrics.ListenAddress,
			cfg.Metrics.ListenPort,
		),
		Handler:           mux,
		ReadHeaderTimeout: 60 * time.Second,
	}
	return server.ListenAndServe()
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	return globalMetrics
}
