package tokenregistry

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const (
	MetricNameSpace = "tokenregistry"
)

var (
	instructionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "instructions_total",
			Help:      "registry instructions submitted, by opcode and result",
		},
		[]string{"op", "result"},
	)

	entryGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "entries",
			Help:      "registry entries by state",
		},
		[]string{"state"},
	)

	collectedFees = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "collector_balance",
			Help:      "fee mint balance held by the fee collector",
		},
		[]string{"collector", "mint"},
	)
)

func init() {
	prometheus.MustRegister(
		instructionCounter,
		entryGauge,
		collectedFees,
	)
}

func metricInstruction(op, result string) {
	instructionCounter.WithLabelValues(op, result).Inc()
}

func metricEntries(live, deleted int) {
	entryGauge.WithLabelValues("live").Set(float64(live))
	entryGauge.WithLabelValues("deleted").Set(float64(deleted))
}

func metricCollectorBalance(collector, mint string, amount uint64, decimals uint8) {
	ui, _ := uiAmount(amount, decimals).Float64()
	collectedFees.WithLabelValues(collector, mint).Set(ui)
}

// uiAmount scales a raw token amount by the mint decimals.
func uiAmount(amount uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals))
}
