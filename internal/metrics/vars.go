package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ScansTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arb_scans_total",
		Help: "Number of scan cycles started",
	})

	OpportunitiesFound = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "arb_opportunities_total",
		Help: "Number of opportunities detected",
	})

	BestSpreadPercent = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "arb_best_spread_percent",
		Help: "Profit percent of the best opportunity in the latest scan",
	})

	FetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "arb_fetch_errors_total",
		Help: "Number of quote fetch failures per exchange",
	}, []string{"exchange"})

	FetchLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "arb_fetch_latency_seconds",
		Help:    "Time to fetch a book ticker from an exchange",
		Buckets: prometheus.DefBuckets,
	}, []string{"exchange"})

	ExchangeBid = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "arb_exchange_bid",
		Help: "Last best bid seen per exchange for the default symbol",
	}, []string{"exchange"})

	ExchangeAsk = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "arb_exchange_ask",
		Help: "Last best ask seen per exchange for the default symbol",
	}, []string{"exchange"})
)

func init() {
	prometheus.MustRegister(
		ScansTotal,
		OpportunitiesFound,
		BestSpreadPercent,
		FetchErrors,
		FetchLatency,
		ExchangeBid,
		ExchangeAsk,
	)
}
