// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes the Prometheus counters of the credential authority.

Every collector lives on a registry built in main and handed to the
components that record into it. Nothing registers against the global
default registry.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/credauth/internal/platform/sec"
)

const namespace = "credauth"

// Operation names used as the "operation" label.
const (
	OperationRegister = "register"
	OperationLogin    = "login"
	OperationLogout   = "logout"
	OperationValidate = "validate"
)

// Recorder counts authority operations and guard rejections.
//
// A nil *Recorder is valid and records nothing, which keeps tests that do
// not care about metrics free of setup.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// NewRecorder builds a fresh registry with the process and Go runtime
// collectors plus the credauth counters.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	recorder := &Recorder{
		registry: registry,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_operations_total",
			Help:      "Credential authority operations by scheme, operation and outcome.",
		}, []string{"scheme", "operation", "outcome"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_rejections_total",
			Help:      "Requests turned away by the access guard, by reason.",
		}, []string{"reason"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		recorder.operations,
		recorder.rejections,
	)

	return recorder
}

// ObserveOperation counts one authority call. The outcome label is derived
// from err with [sec.Reason].
func (recorder *Recorder) ObserveOperation(scheme, operation string, err error) {
	if recorder == nil {
		return
	}
	recorder.operations.WithLabelValues(scheme, operation, sec.Reason(err)).Inc()
}

// ObserveRejection counts one request refused by the guard.
func (recorder *Recorder) ObserveRejection(err error) {
	if recorder == nil {
		return
	}
	recorder.rejections.WithLabelValues(sec.Reason(err)).Inc()
}

// Operations exposes the operation counter for assertions.
func (recorder *Recorder) Operations() *prometheus.CounterVec {
	return recorder.operations
}

// Rejections exposes the rejection counter for assertions.
func (recorder *Recorder) Rejections() *prometheus.CounterVec {
	return recorder.rejections
}

// Handler serves the registry in the Prometheus exposition format.
func (recorder *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(recorder.registry, promhttp.HandlerOpts{Registry: recorder.registry})
}
