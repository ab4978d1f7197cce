/*
Copyright 2026 Appointly, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package auth

import (
	"github.com/gravitational/trace"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "booking_client"

// Renewal outcomes.
const (
	renewalStarted   = "started"
	renewalSucceeded = "succeeded"
	renewalFailed    = "failed"
	renewalCancelled = "cancelled"
)

// Metrics are the Prometheus counters of the authentication layer.
type Metrics struct {
	renewals     *prometheus.CounterVec
	replays      prometheus.Counter
	authFailures *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with reg, unless reg is nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		renewals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "session_renewals_total",
			Help:      "Session renewals by outcome.",
		}, []string{"outcome"}),
		replays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "request_replays_total",
			Help:      "Requests sent again after a 401.",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "auth_failures_total",
			Help:      "Requests rejected by the authentication layer by error kind.",
		}, []string{"kind"}),
	}
	if reg == nil {
		return m, nil
	}
	for _, collector := range []prometheus.Collector{m.renewals, m.replays, m.authFailures} {
		if err := reg.Register(collector); err != nil {
			return nil, trace.Wrap(err)
		}
	}
	return m, nil
}

func (m *Metrics) renewal(outcome string) {
	m.renewals.WithLabelValues(outcome).Inc()
}

func (m *Metrics) replay() {
	m.replays.Inc()
}

func (m *Metrics) authFailure(kind ErrorKind, n int) {
	m.authFailures.WithLabelValues(kind.String()).Add(float64(n))
}
