package pension

import (
	"github.com/pensionledger/weave/coin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the ledger state observed by delivered transactions. A nil
// Metrics is valid and records nothing.
type Metrics struct {
	events     *prometheus.CounterVec
	balance    prometheus.Gauge
	pensioners *prometheus.GaugeVec
}

// NewMetrics returns Metrics with all collectors registered in given
// registry. Use nil to register in the default prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pensionledger",
			Subsystem: "pension",
			Name:      "events_total",
			Help:      "Total number of applied pension ledger changes by event.",
		}, []string{"event"}),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pensionledger",
			Subsystem: "pension",
			Name:      "balance",
			Help:      "Total value held in the pension ledger custody.",
		}),
		pensioners: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pensionledger",
			Subsystem: "pension",
			Name:      "pensioners",
			Help:      "Number of pensioners by state, as of the last state calculation.",
		}, []string{"state"}),
	}
	reg.MustRegister(m.events, m.balance, m.pensioners)
	return m
}

func (m *Metrics) event(name string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(name).Inc()
}

func (m *Metrics) setBalance(c *coin.Coin) {
	if m == nil || c == nil {
		return
	}
	m.balance.Set(coinValue(*c))
}

func (m *Metrics) setSnapshot(s *StateSnapshot) {
	if m == nil {
		return
	}
	m.pensioners.WithLabelValues("active").Set(float64(s.Active))
	m.pensioners.WithLabelValues("retired").Set(float64(s.Retired))
	m.setBalance(s.Balance)
}

// coinValue returns a float approximation of the coin value, good enough
// for monitoring.
func coinValue(c coin.Coin) float64 {
	return float64(c.Whole) + float64(c.Fractional)/float64(coin.FracUnit)
}
