package utils

import (
	"strconv"
	"time"

	"github.com/pensionledger/weave"
	"github.com/pensionledger/weave/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and measures
// their processing time. Every metric is labeled with the message path and
// the result.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ weave.Decorator = (*Metrics)(nil)

// NewMetrics returns a Metrics decorator with all collectors registered in
// given registry. Use nil to register in the default prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		txs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pensionledger",
			Name:      "transactions_total",
			Help:      "Total number of processed transactions by stage, message path and result.",
		}, []string{"stage", "path", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "pensionledger",
			Name:      "transaction_duration_seconds",
			Help:      "Duration of transaction processing by stage and message path.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"stage", "path"}),
	}
	reg.MustRegister(m.txs, m.duration)
	return m
}

// Check records the processing of a transaction in the check stage.
func (m *Metrics) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", tx, start, err)
	return res, err
}

// Deliver records the processing of a transaction in the deliver stage.
func (m *Metrics) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", tx, start, err)
	return res, err
}

func (m *Metrics) observe(stage string, tx weave.Tx, start time.Time, err error) {
	path := msgPath(tx)
	m.duration.WithLabelValues(stage, path).Observe(time.Since(start).Seconds())
	m.txs.WithLabelValues(stage, path, resultLabel(err)).Inc()
}

// resultLabel returns "ok" for a successful transaction. A failure is
// labeled with its ABCI error code.
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	code, _ := errors.ABCIInfo(err, false)
	return strconv.FormatUint(uint64(code), 10)
}
