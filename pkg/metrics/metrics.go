// Package metrics exposes vesting operations to Prometheus.
package metrics

import (
	"errors"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "vesting"

// Result labels of an operation.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics counts operations and the tokens they moved.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	transfers  *prometheus.CounterVec
	tokens     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Vesting operations by name and result.",
		}, []string{"operation", "result"}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Token transfers by kind.",
		}, []string{"kind"}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transferred_tokens_total",
			Help:      "Tokens moved by transfer kind, in base units. Approximate above 2^53.",
		}, []string{"kind"}),
	}

	reg.MustRegister(m.operations, m.transfers, m.tokens)
	return m
}

// Operation records the outcome of an operation. Errors matching one of
// expected count as their own result label, any other error as "error".
func (m *Metrics) Operation(name string, err error, expected ...error) {
	if m == nil {
		return
	}

	result := ResultOK
	if err != nil {
		result = ResultError
		for _, e := range expected {
			if errors.Is(err, e) {
				result = e.Error()
				break
			}
		}
	}
	m.operations.WithLabelValues(name, result).Inc()
}

// Transfer records a token movement.
func (m *Metrics) Transfer(kind string, amount sdkmath.Int) {
	if m == nil {
		return
	}

	m.transfers.WithLabelValues(kind).Inc()
	if amount.IsPositive() {
		f, _ := new(big.Float).SetInt(amount.BigInt()).Float64()
		m.tokens.WithLabelValues(kind).Add(f)
	}
}
