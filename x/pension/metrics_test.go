package pension

import (
	"testing"
	"time"

	"github.com/pensionledger/weave/coin"
	"github.com/pensionledger/weave/weavetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	env := newTestEnv(t)
	metrics := NewMetrics(prometheus.NewRegistry())
	RegisterRoutes(env.handlers, env.auth, env.bank, metrics)

	alice := weavetest.NewCondition()
	env.mint(alice, 10)
	env.register(alice, time.Hour)
	_, err := env.exec(now, alice, &FundPensionMsg{Amount: coin.NewCoinp(2, 250000000, "PEN")})
	assert.NoError(t, err)
	_, err = env.exec(now.Add(2*time.Hour), env.owner, &CalculateStateMsg{})
	assert.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.events.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.events.WithLabelValues("funded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.events.WithLabelValues("state_calculated")))
	assert.Equal(t, 2.25, testutil.ToFloat64(metrics.balance))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.pensioners.WithLabelValues("active")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.pensioners.WithLabelValues("retired")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.event("created")
	m.setBalance(coin.NewCoinp(1, 0, "PEN"))
	m.setSnapshot(&StateSnapshot{})
}
